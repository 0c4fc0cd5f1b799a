package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/steamworks-go"
	"github.com/wippyai/steamworks-go/callbacks"
	"github.com/wippyai/steamworks-go/client"
	"github.com/wippyai/steamworks-go/guard"
	"github.com/wippyai/steamworks-go/native"
	"github.com/wippyai/steamworks-go/session"
	"github.com/wippyai/steamworks-go/webapi"
)

const pumpInterval = 50 * time.Millisecond

func main() {
	var (
		appID       = flag.Uint("app", 0, "App id to initialize the session for")
		libPath     = flag.String("lib", "", "Path to the vendor shared library")
		fake        = flag.Bool("fake", false, "Run against the in-process simulator")
		configPath  = flag.String("config", "", "Path to a YAML config file")
		timeout     = flag.Duration("timeout", 0, "Per-operation timeout")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "app":
			cfg.AppID = uint32(*appID)
		case "lib":
			cfg.LibPath = *libPath
		case "fake":
			cfg.Fake = *fake
		case "timeout":
			cfg.Timeout = *timeout
		}
	})

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		session.SetLogger(logger.Named("session"))
		native.SetLogger(logger.Named("native"))
		callbacks.SetLogger(logger.Named("callbacks"))
		client.SetLogger(logger.Named("client"))
		webapi.SetLogger(logger.Named("webapi"))
	}

	if *interactive {
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}

	if err := run(cfg, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: steamcl [flags] <command> [args]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  server-time             Print the vendor server clock (native session)")
	fmt.Fprintln(os.Stderr, "  info                    Print session, app and user details")
	fmt.Fprintln(os.Stderr, "  pump                    Run the callback pump, printing broadcast events")
	fmt.Fprintln(os.Stderr, "  webapi <op> [args]      Web API: server-time | vanity <name> | summary <id> | games <id>")
	fmt.Fprintln(os.Stderr, "  guard <shared-secret>   Print the current Steam Guard code")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Flags: -app <id> -lib <path> -fake -config <file> -timeout <d> -v -i")
}

func run(cfg config, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch args[0] {
	case "server-time":
		return cmdServerTime(ctx, cfg)
	case "info":
		return cmdInfo(ctx, cfg)
	case "pump":
		return cmdPump(ctx, cfg)
	case "webapi":
		return cmdWebAPI(ctx, cfg, args[1:])
	case "guard":
		if len(args) < 2 {
			return fmt.Errorf("guard: shared secret required")
		}
		code, err := guard.CodeNow(args[1])
		if err != nil {
			return err
		}
		fmt.Println(code)
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// connect builds the bridge stack per the CLI configuration: the
// simulator when -fake is set, the real shared library otherwise.
func connect(ctx context.Context, cfg config) (*client.Client, error) {
	clientCfg := client.Config{
		AppID:   steamworks.AppID(cfg.AppID),
		LibPath: cfg.LibPath,
	}
	if cfg.Fake {
		clientCfg.API = newSimulator()
		clientCfg.Probe = session.StaticProbe{}
	}
	return client.Connect(ctx, clientCfg)
}

// newSimulator returns the Fake with demo fixtures so every CLI command
// has something to show.
func newSimulator() *native.Fake {
	fake := native.NewFake()
	fake.SetPersona("steamcl", native.PersonaStateOnline)
	fake.SetBuildID(20260830)
	fake.InstallDLC(570)
	fake.DefineAchievement("FIRST_RUN")
	fake.SignFile("steamcl", native.CheckFileSignatureValid)
	return fake
}

func cmdServerTime(ctx context.Context, cfg config) error {
	c, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	when, err := c.Utils().ServerTime()
	if err != nil {
		return err
	}
	fmt.Printf("%d (%s)\n", when, time.Unix(int64(when), 0).UTC().Format(time.RFC3339))
	return nil
}

func cmdInfo(ctx context.Context, cfg config) error {
	c, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if probe, err := c.Session().DetectClient(ctx); err == nil && probe.Found {
		fmt.Printf("Client process: %s (pid %d)\n", probe.Name, probe.PID)
	}

	app, _ := c.Utils().AppID()
	build, _ := c.Apps().BuildID()
	lang, _ := c.Apps().CurrentGameLanguage()
	owned, _ := c.Apps().IsSubscribed()
	id, _ := c.User().SteamID()
	on, _ := c.User().LoggedOn()
	persona, _ := c.Friends().PersonaName()
	state, _ := c.Friends().PersonaState()
	country, _ := c.Utils().IPCountry()
	deck, _ := c.Utils().OnSteamDeck()

	fmt.Printf("App:       %d (build %d, %s, owned %v)\n", app, build, lang, owned)
	fmt.Printf("User:      %s (%s, %s, logged on %v)\n", id, persona, state, on)
	fmt.Printf("Country:   %s\n", country)
	fmt.Printf("SteamDeck: %v\n", deck)
	fmt.Printf("Session:   %s, generation %d\n", c.Session().State(), c.Session().Generation())
	return nil
}

func cmdPump(ctx context.Context, cfg config) error {
	c, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	for _, id := range []native.CallbackID{
		native.CallbackIPCountry,
		native.CallbackLowBatteryPower,
		native.CallbackSteamShutdown,
		native.CallbackAuthTicketResponse,
		native.CallbackUserStatsReceived,
	} {
		id := id
		cancel := c.Callbacks().Subscribe(id, func(evt callbacks.Event) {
			fmt.Printf("callback %d: % x\n", evt.ID, evt.Data)
		})
		defer cancel()
	}

	fmt.Println("Pumping; interrupt to stop.")
	if err := c.Pump().Run(ctx, pumpInterval); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func cmdWebAPI(ctx context.Context, cfg config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("webapi: operation required (server-time | vanity | summary | games)")
	}
	api := webapi.New(webapi.WithKey(cfg.WebKey))

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	switch args[0] {
	case "server-time":
		when, err := api.ServerTime(ctx)
		if err != nil {
			return err
		}
		fmt.Println(when.Format(time.RFC3339))
		return nil

	case "vanity":
		if len(args) < 2 {
			return fmt.Errorf("webapi vanity: name required")
		}
		id, err := api.ResolveVanityURL(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil

	case "summary":
		id, err := parseSteamID(args)
		if err != nil {
			return err
		}
		players, err := api.PlayerSummaries(ctx, id)
		if err != nil {
			return err
		}
		for _, p := range players {
			fmt.Printf("%s  %s  %s\n", p.SteamID, p.PersonaName, p.ProfileURL)
		}
		return nil

	case "games":
		id, err := parseSteamID(args)
		if err != nil {
			return err
		}
		games, err := api.OwnedGames(ctx, id)
		if err != nil {
			return err
		}
		for _, g := range games {
			fmt.Printf("%7d  %s  (%d min)\n", g.AppID, g.Name, g.PlaytimeForever)
		}
		return nil

	default:
		return fmt.Errorf("webapi: unknown operation %q", args[0])
	}
}

func parseSteamID(args []string) (steamworks.SteamID, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("webapi %s: steam id required", args[0])
	}
	id, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("webapi %s: %q is not a steam id", args[0], args[1])
	}
	return steamworks.SteamID(id), nil
}
