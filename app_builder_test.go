package particleart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type MockModule struct {
	installed bool
}

func (m *MockModule) Install(app *App, commands *Commands) {
	m.installed = true
}

func TestAppBuilder_Stateless(t *testing.T) {
	app := NewAppBuilder().Build()

	assert.False(t, app.stateful)
	assert.Equal(t, State(0), app.initialState)
	assert.Equal(t, State(0), app.finalState)
}

func TestAppBuilder_UseStates(t *testing.T) {
	app := NewAppBuilder().UseStates(1, 10).Build()

	assert.True(t, app.stateful)
	assert.Equal(t, State(1), app.initialState)
	assert.Equal(t, State(10), app.finalState)
}

func TestAppBuilder_UseModule(t *testing.T) {
	builder := NewAppBuilder()
	builder.UseModule(&MockModule{})

	assert.Len(t, builder.modules, 1)
}

func TestAppBuilder_Build_WithMultipleModules(t *testing.T) {
	module1 := &MockModule{}
	module2 := &MockModule{}

	builder := NewAppBuilder()
	builder.UseModule(module1)
	builder.UseModule(module2)
	builder.Build()

	assert.Len(t, builder.modules, 2)
	assert.True(t, module1.installed)
	assert.True(t, module2.installed)
}

func TestAppBuilder_SessionID(t *testing.T) {
	a := NewAppBuilder().Build()
	b := NewAppBuilder().Build()

	_, err := uuid.Parse(a.SessionID())
	assert.NoError(t, err)
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}
