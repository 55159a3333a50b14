package particleart

import (
	"reflect"

	"github.com/google/uuid"
)

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: &App{
		resources:        make(map[reflect.Type]any),
		systems:          make(map[string]map[State]map[statePhase][]systemFn),
		systemsStateless: make(map[string][]systemFn),
		stages:           DefaultStages(),
		stateful:         false,
		sessionID:        uuid.NewString(),
	}}
}

func (b *AppBuilder) UseStates(initialState State, finalState State) *AppBuilder {
	b.app.stateful = true
	b.app.initialState = initialState
	b.app.finalState = finalState

	return b
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

// Build prepares the schedule and installs modules in the order they were
// added. Modules that need the logger should come after LoggingModule.
func (b *AppBuilder) Build() *App {
	app := b.app
	commands := &Commands{app: app}

	for _, stage := range app.stages {
		app.initStage(stage)
	}
	for _, module := range b.modules {
		module.Install(app, commands)
	}

	return app
}
