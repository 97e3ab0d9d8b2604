package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nathanbarretosilveira-dev/dash/internal/config"
	"github.com/nathanbarretosilveira-dev/dash/internal/server"
	"github.com/nathanbarretosilveira-dev/dash/internal/util"
)

var (
	port    = flag.Int("port", 0, "porta do servidor (config.toml tem prioridade quando define port)")
	devMode = flag.Bool("dev", false, "modo de desenvolvimento")
	dataDir = flag.String("dataDir", "", "diretório de dados (sobrepõe o arquivo de configuração)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Dashboard de Emissão de CT-e")
	fmt.Println("==========================================")

	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("falha ao carregar configuração, usando padrão: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	dataPath, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Printf("falha ao criar diretório de dados: %v", err)
	} else {
		fmt.Printf("Diretório de dados: %s\n", dataPath)
	}

	srv := server.NewServer(cfg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("Servidor iniciando na porta %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("falha ao iniciar o servidor: %v", err)
		}
	}()

	if !cfg.Server.DevMode {
		fmt.Printf("Abrindo navegador: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("Não foi possível abrir o navegador, acesse: %s\n", url)
		}
	} else {
		fmt.Printf("Modo de desenvolvimento: acesse %s\n", url)
	}

	fmt.Println("\nPressione Ctrl+C para encerrar...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nEncerrando servidor...")
}
