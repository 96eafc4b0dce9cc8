package sabertooth

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

func TestTimeout(t *testing.T) {
	c := clock.NewMock()
	to := NewTimeout(c, 100*time.Millisecond)
	require.True(t, to.CanExpire())
	require.False(t, to.Expired())
	c.Add(99 * time.Millisecond)
	require.False(t, to.Expired())
	c.Add(time.Millisecond)
	require.True(t, to.Expired())

	to.Reset()
	require.False(t, to.Expired())
	to.Expire()
	require.True(t, to.Expired())
	to.Reset()
	require.False(t, to.Expired())
}

func TestTimeoutInfinite(t *testing.T) {
	c := clock.NewMock()
	to := NewTimeout(c, Infinite)
	require.False(t, to.CanExpire())
	to.Expire()
	require.False(t, to.Expired())
	c.Add(time.Hour)
	require.False(t, to.Expired())

	to.SetDuration(time.Second)
	require.True(t, to.Expired())
}

func TestTimeoutZero(t *testing.T) {
	c := clock.NewMock()
	to := NewTimeout(c, 0)
	require.False(t, to.CanExpire())
	to.Expire()
	require.False(t, to.Expired())
	c.Add(time.Hour)
	require.False(t, to.Expired())
}

func TestConfig(t *testing.T) {
	conf := Config{}.WithDefaults()
	require.Equal(t, DefaultPollInterval, conf.PollInterval)
	require.Equal(t, DefaultTimeout, conf.Timeout)
	require.True(t, conf.UseCRC())
	require.NotNil(t, conf.Clock)
	require.NoError(t, conf.Validate())

	conf = Config{PollInterval: Infinite, Timeout: Infinite, UseChecksum: true}.WithDefaults()
	require.Equal(t, Infinite, conf.PollInterval)
	require.Equal(t, Infinite, conf.Timeout)
	require.False(t, conf.UseCRC())
	require.NoError(t, conf.Validate())

	require.Error(t, Config{Timeout: -time.Second}.Validate())
	require.Error(t, Config{PollInterval: -2}.Validate())

	require.Equal(t, Infinite, DurationFromMS(-1))
	require.Equal(t, Infinite, DurationFromMS(0))
	require.Equal(t, 250*time.Millisecond, DurationFromMS(250))
}
