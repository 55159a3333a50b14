package particleart

type Commands struct {
	app *App
}

// ChangeState schedules a transition at the end of the current frame.
func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

// Quit schedules a transition to the final state.
func (cmd *Commands) Quit() *Commands {
	return cmd.ChangeState(cmd.app.finalState)
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
