package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewBuildsLogger(t *testing.T) {
	for _, opts := range []Options{
		{},
		{JSON: true, Service: "job-matcher-api", Env: "test"},
		{JSON: true, Debug: true},
	} {
		log, err := New(opts)
		require.NoError(t, err)
		require.NotNil(t, log)
		assert.Equal(t, opts.Debug, log.Core().Enabled(zapcore.DebugLevel))
	}
}

func TestBody(t *testing.T) {
	assert.Equal(t, "", Body("body", []byte("anything"), 0).String)
	assert.Equal(t, "short", Body("body", []byte("  short  "), 10).String)
	assert.Equal(t, "héll...", Body("body", []byte("héllo world"), 4).String)

	field := Body("response", []byte("<html>\n  <body>Bad Gateway</body>\n</html>\n"), 80)
	assert.Equal(t, "response", field.Key)
	assert.Equal(t, "<html> <body>Bad Gateway</body> </html>", field.String)
}
