package bootstrap

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	heatmap "pomo/internal/modules/heatmap/domain"
	paneldomain "pomo/internal/modules/panel/domain"
	panelservice "pomo/internal/modules/panel/service"
	statsinadapter "pomo/internal/modules/stats/adapter/in"
	statsoutadapter "pomo/internal/modules/stats/adapter/out"
	statsout "pomo/internal/modules/stats/port/out"
	statsservice "pomo/internal/modules/stats/service"
	statsusecase "pomo/internal/modules/stats/usecase"
	"pomo/internal/platform/clock"
	"pomo/internal/platform/config"
	"pomo/internal/platform/id"
	uiapp "pomo/internal/ui/app"
)

type App struct {
	StatsCLI statsinadapter.CLIHandler
	Config   config.Config

	clock    clock.Clock
	cache    statsout.CacheStore
	remote   statsout.RemoteStore
	provider statsout.Provider
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.RandomHex{}

	cache := statsoutadapter.NewFileCacheStore(cfg.CachePath, ids, clk)
	remote := statsoutadapter.NewGistRemoteStore()
	projector, err := statsoutadapter.NewSQLiteDayProjector(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new day projector: %w", err)
	}
	provider := statsoutadapter.NewGRPCProvider(cfg.Settings.ProviderBinary)

	svc := statsservice.NewStatsService(clk, cache, projector)
	statsUC := statsusecase.NewInteractor(svc, remote, provider, cfg.Credential, clk)

	return &App{
		StatsCLI: statsinadapter.NewCLIHandler(statsUC),
		Config:   cfg,
		clock:    clk,
		cache:    cache,
		remote:   remote,
		provider: provider,
	}, nil
}

// RunTUI wires the session panel actor to a Bubble Tea program. Outbound
// panel events are forwarded through Program.Send, so the render loop and
// the actor loop never share state directly.
func RunTUI(app *App) error {
	var program *tea.Program

	actor := panelservice.NewActor(
		app.cache,
		app.remote,
		app.provider,
		app.Config.Credential,
		app.clock,
		func(event paneldomain.Outbound) {
			if program != nil {
				program.Send(event)
			}
		},
	)

	model := uiapp.NewModel(actor, app.clock, heatmap.PaletteFor(app.Config.DarkScheme()))
	program = tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go actor.Run(ctx)
	defer actor.Close()

	_, err := program.Run()
	return err
}
