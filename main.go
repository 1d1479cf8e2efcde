package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/campusconnect/quad/internal/api"
	"github.com/campusconnect/quad/internal/config"
	"github.com/campusconnect/quad/internal/logger"
	"github.com/campusconnect/quad/internal/session"
	"github.com/campusconnect/quad/internal/store"
	"github.com/campusconnect/quad/internal/ui"
)

const version = "1.0.0"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "-v", "--version":
			fmt.Printf("Quad v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		default:
			fmt.Printf("Unknown command: %s\n", os.Args[1])
			printHelp()
			os.Exit(1)
		}
	}

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	dataDir := config.Dir()
	cache, err := store.Open(filepath.Join(dataDir, "cache.db"))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer cache.Close()

	user, err := session.Load(dataDir)
	if err != nil {
		log.Warn("failed to load session", zap.Error(err))
	}

	app := &ui.App{
		Client:  api.New(cfg.BaseURL, cfg.RequestTimeout(), log),
		Store:   cache,
		Cfg:     cfg,
		Log:     log,
		DataDir: dataDir,
		User:    user,
	}

	var initialModel tea.Model
	if user != nil {
		initialModel = ui.NewMenuModel(app)
	} else {
		initialModel = ui.NewLoginModel(app)
	}

	p := tea.NewProgram(initialModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `Quad - Terminal CampusConnect Client

Usage:
  quad               Start the client
  quad version       Show version information
  quad help          Show this help message

Navigation:
  ↑/↓ or j/k        Navigate lists
  Enter             Select/Open item
  ESC               Go back
  q                 Quit from current view
  ctrl+c            Force quit

Menu:
  Feed              Posts from people you follow
  Messages          Direct messages
  Notifications     Likes, comments and follows
  Search            Find people
  Profile           Your profile and posts

Feed:
  n                 Write a post
  l                 Like the selected post
  enter             Open post with comments
  r                 Refresh

Messages:
  n                 Start a conversation with a follower
  enter             Open conversation
  r                 Refresh

Chat:
  n or c            Compose a message
  ctrl+s            Send message (while composing)
  p                 Open the other person's profile
  ↑/↓ or j/k        Scroll messages

Configuration:
  ~/.quad/config.yml  base_url, poll intervals, log settings
  QUAD_BASE_URL       overrides the backend address

Notes:
  - Messages refresh on a fixed interval while a chat is open
  - The feed and conversation list are cached locally in ~/.quad/cache.db
  - Logs are written to ~/.quad/quad.log
`
	fmt.Print(help)
}
