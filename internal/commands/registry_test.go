package commands

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockCommand(name string, aliases ...string) *Command {
	return &Command{
		Name:        name,
		Aliases:     aliases,
		Description: fmt.Sprintf("Mock command: %s", name),
	}
}

func TestTable_NewTable(t *testing.T) {
	table := NewTable()

	assert.NotNil(t, table)
	assert.Empty(t, table.All())
	assert.Empty(t, table.Names())
}

func TestTable_Register(t *testing.T) {
	tests := []struct {
		name    string
		command *Command
		wantErr string
	}{
		{name: "plain command", command: newMockCommand("greet")},
		{name: "command with aliases", command: newMockCommand("echo", "say", "repeat")},
		{name: "nil command", command: nil, wantErr: "command name cannot be empty"},
		{name: "blank name", command: newMockCommand("  "), wantErr: "command name cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable()
			err := table.Register(tt.command)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Empty(t, table.All())
				return
			}

			require.NoError(t, err)
			got, ok := table.Find(tt.command.Name)
			require.True(t, ok)
			assert.Same(t, tt.command, got)
			for _, alias := range tt.command.Aliases {
				got, ok := table.Find(alias)
				require.True(t, ok, alias)
				assert.Same(t, tt.command, got)
			}
		})
	}
}

func TestTable_Register_Duplicate(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Register(newMockCommand("echo", "say")))

	err := table.Register(newMockCommand("ECHO"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command echo already registered")

	// aliases share the namespace with names
	err = table.Register(newMockCommand("say"))
	require.Error(t, err)

	err = table.Register(newMockCommand("speak", "Say"))
	require.Error(t, err)
	_, ok := table.Find("speak")
	assert.False(t, ok, "a rejected command must not be partially registered")
}

func TestTable_Find_CaseInsensitive(t *testing.T) {
	table := NewTable()
	cmd := newMockCommand("Greet", "Hi")
	require.NoError(t, table.Register(cmd))

	for _, name := range []string{"greet", "GREET", "Greet", "hi", "HI"} {
		got, ok := table.Find(name)
		require.True(t, ok, name)
		assert.Same(t, cmd, got)
	}

	_, ok := table.Find("missing")
	assert.False(t, ok)
}

func TestTable_Unregister(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Register(newMockCommand("echo", "say")))
	require.NoError(t, table.Register(newMockCommand("greet")))

	table.Unregister("ECHO")

	_, ok := table.Find("echo")
	assert.False(t, ok)
	_, ok = table.Find("say")
	assert.False(t, ok)
	assert.Equal(t, []string{"greet"}, table.Names())

	// Unregistering something unknown is a no-op
	table.Unregister("nonexistent")
	assert.Len(t, table.All(), 1)

	// The freed alias can be reused
	require.NoError(t, table.Register(newMockCommand("say")))
}

func TestTable_AllAndNames(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Register(newMockCommand("roll")))
	require.NoError(t, table.Register(newMockCommand("add", "sum")))
	require.NoError(t, table.Register(newMockCommand("Echo")))

	all := table.All()
	names := make([]string, 0, len(all))
	for _, cmd := range all {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"add", "Echo", "roll"}, names)
	assert.Equal(t, []string{"add", "echo", "roll", "sum"}, table.Names())
}

func TestTable_Suggest(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Register(newMockCommand("greet")))
	require.NoError(t, table.Register(newMockCommand("grep")))
	require.NoError(t, table.Register(newMockCommand("release")))

	tests := []struct {
		input    string
		expected []string
	}{
		{input: "gret", expected: []string{"greet", "grep"}},
		{input: "relase", expected: []string{"release"}},
		{input: "GREEET", expected: []string{"greet"}},
		{input: "greet", expected: []string{}},
		{input: "zzzzzz", expected: []string{}},
		{input: "", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, table.Suggest(tt.input))
		})
	}
}

func TestTable_Complete(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Register(newMockCommand("greet")))
	require.NoError(t, table.Register(newMockCommand("grep")))
	require.NoError(t, table.Register(newMockCommand("echo")))

	assert.Equal(t, []string{"echo", "greet", "grep"}, table.Complete(""))
	assert.Equal(t, []string{"grep", "greet"}, table.Complete("gr"))
	assert.Equal(t, []string{"echo"}, table.Complete("EC"))
	assert.Empty(t, table.Complete("xyz"))
}

func TestTable_ConcurrentAccess(t *testing.T) {
	table := NewTable()

	numGoroutines := 10
	commandsPerGoroutine := 10

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()

			for j := 0; j < commandsPerGoroutine; j++ {
				assert.NoError(t, table.Register(newMockCommand(fmt.Sprintf("cmd_%d_%d", id, j))))
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, table.All(), numGoroutines*commandsPerGoroutine)

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()

			for j := 0; j < commandsPerGoroutine; j++ {
				name := fmt.Sprintf("cmd_%d_%d", id, j)
				cmd, ok := table.Find(name)
				assert.True(t, ok)
				if ok {
					assert.Equal(t, name, cmd.Name)
				}
				table.Unregister(name)
			}
		}(i)
	}
	wg.Wait()

	assert.Empty(t, table.All())
}
