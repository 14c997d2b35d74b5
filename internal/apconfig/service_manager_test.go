package apconfig

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls  []string
	output map[string]string
	err    map[string]error
}

func (f *fakeRunner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	call := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, call)
	return []byte(f.output[call]), f.err[call]
}

func TestSystemctlManager_Restart(t *testing.T) {
	runner := &fakeRunner{}
	m := NewSystemctlManagerWithRunner(runner.run)

	require.NoError(t, m.Restart(context.Background(), "hostapd@wlan0"))
	assert.Equal(t, []string{"systemctl restart hostapd@wlan0"}, runner.calls)
}

func TestSystemctlManager_RestartError(t *testing.T) {
	runner := &fakeRunner{
		output: map[string]string{"systemctl restart hostapd": "Job failed\n"},
		err:    map[string]error{"systemctl restart hostapd": errors.New("exit status 1")},
	}
	m := NewSystemctlManagerWithRunner(runner.run)

	err := m.Restart(context.Background(), "hostapd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Job failed")
}

func TestSystemctlManager_IsActive(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		err     error
		active  bool
		wantErr bool
	}{
		{name: "active", output: "active\n", active: true},
		{name: "inactive exit 3", output: "inactive\n", err: errors.New("exit status 3")},
		{name: "activating", output: "activating\n"},
		{name: "no output", err: errors.New("executable file not found"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{
				output: map[string]string{"systemctl is-active dnsmasq": tt.output},
				err:    map[string]error{"systemctl is-active dnsmasq": tt.err},
			}
			active, err := NewSystemctlManagerWithRunner(runner.run).IsActive(context.Background(), "dnsmasq")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.active, active)
		})
	}
}

func TestUnitNames(t *testing.T) {
	assert.Equal(t, "hostapd", HostapdUnit("wlan0", false))
	assert.Equal(t, "hostapd@wlan1", HostapdUnit("wlan1", true))
	assert.Equal(t, "dnsmasq", DnsmasqUnit("wlan0", false))
	assert.Equal(t, "dnsmasq@wlan1", DnsmasqUnit("wlan1", true))
}
