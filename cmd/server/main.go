package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/api"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/clients"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/lobby"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/log"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/messages"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/network"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/repositories"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/version"
	"github.com/horizoncarlo/badlands-online-sub000/pkg/workers"
	"nhooyr.io/websocket"
)

type config struct {
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseURL    string `env:"DATABASE_URL" envDefault:"badlands.db"`
	StaticDir      string `env:"STATIC_DIR" envDefault:"client"`
}

func main() {
	wsPort := flag.Int("ws-port", 8080, "WebSocket port to listen on")
	apiPort := flag.Int("api-port", 8081, "HTTP API port to listen on")
	logLevel := flag.String("log-level", "info", "Log level")
	soloMode := flag.Bool("solo", false, "Allow starting a turn without an opponent")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		panic(fmt.Sprintf("Failed to parse environment config: %v", err))
	}

	log.Info("Starting server version %s", version.Get())
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var repository repositories.Repository
	switch cfg.DatabaseDriver {
	case "sqlite":
		repository, err = repositories.NewSQLiteRepository(ctx, cfg.DatabaseURL)
	case "postgres":
		repository, err = repositories.NewPostgresRepository(ctx, cfg.DatabaseURL)
	default:
		panic(fmt.Sprintf("Unknown database driver %q", cfg.DatabaseDriver))
	}
	if err != nil {
		panic(fmt.Sprintf("Failed to create repository: %v", err))
	}
	defer repository.Close(ctx)

	clientManager := clients.NewClientManager()

	recordChannelSize := 100
	recordChan := make(chan workers.GameRecordRequest, recordChannelSize)

	recordWorker := workers.NewRecordWorker(workers.NewRecordWorkerOptions{
		Repository: repository,
		RecordChan: recordChan,
	})
	go recordWorker.Start(ctx)

	sessionInterval := 50 * time.Millisecond
	gameLobby := lobby.NewLobby(ctx, lobby.NewLobbyOptions{
		ClientManager: clientManager,
		RecordChan:    recordChan,
		Interval:      sessionInterval,
		SoloMode:      *soloMode,
	})

	clientEventWorker := workers.NewClientEventWorker(workers.NewClientEventWorkerOptions{
		ClientManager: clientManager,
		OnDisconnect:  gameLobby.HandleDisconnect,
	})
	go clientEventWorker.Start()

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:       *apiPort,
		Lobby:      gameLobby,
		Repository: repository,
		StaticDir:  cfg.StaticDir,
	})
	go apiServer.Start()
	defer apiServer.Stop(ctx)

	wsServer := network.NewWSServer(network.NewWSServerOptions{
		Port: *wsPort,
	})

	connectHandler := func(conn *websocket.Conn) {
		if _, err := clientManager.ConnectClient(conn); err != nil {
			log.Error("Failed to register client: %v", err)
			conn.Close(websocket.StatusInternalError, "failed to register")
		}
	}
	disconnectHandler := func(conn *websocket.Conn) {
		clientID := clientManager.GetClientIDByConn(conn)
		if clientID == 0 {
			log.Warn("Unknown client disconnected")
			return
		}
		clientManager.DisconnectClient(clientID)
		log.Info("Client %d disconnected", clientID)
	}
	messageHandler := func(ctx context.Context, conn *websocket.Conn, message *messages.Message) {
		// The sender's id comes from the connection registry; a client
		// cannot claim another connection's identity.
		message.PlayerID = clientManager.GetClientIDByConn(conn)
		if message.PlayerID == 0 {
			log.Warn("Dropping message from unregistered connection")
			return
		}
		gameLobby.HandleMessage(ctx, message)
	}

	wsServer.Start(ctx, connectHandler, disconnectHandler, messageHandler)
}
