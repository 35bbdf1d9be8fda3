package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DemoCommand(t *testing.T) {
	// given
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"demo"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	// when
	err := Execute()

	// then
	require.NoError(t, err)
	assert.Contains(t, out.String(), "ID: 1, Name: Laptop, Price: $999.99")
	assert.Contains(t, out.String(), "Created: ID: 4, Name: Monitor 4K, Price: $299.99")
	assert.Contains(t, out.String(), "Rejected: Product with ID 999 not found.")
}

func Test_Commands_Registered(t *testing.T) {
	for _, name := range []string{"serve", "demo", "migrate", "watch"} {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, cmd.Name())
		})
	}
}
