package discovery

import (
	"testing"
)

func TestProbeString(t *testing.T) {
	tests := []struct {
		name  string
		probe Probe
		want  string
	}{
		{
			name:  "with serial",
			probe: Probe{Name: "office-jlink", Serial: "801045623", IP: "192.168.1.50", Port: 4441},
			want:  "office-jlink (801045623) at 192.168.1.50:4441",
		},
		{
			name:  "without serial",
			probe: Probe{Name: "bench-probe", IP: "10.0.0.7", Port: 4441},
			want:  "bench-probe at 10.0.0.7:4441",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.probe.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProbeAddr(t *testing.T) {
	probe := Probe{IP: "192.168.1.50", Port: 4441}
	if got, want := probe.Addr(), "192.168.1.50:4441"; got != want {
		t.Errorf("Addr() = %q, want %q", got, want)
	}
}

func TestGetMetadataNilMap(t *testing.T) {
	var probe Probe
	if got := probe.GetMetadata("anything"); got != "" {
		t.Errorf("GetMetadata() = %q, want empty for nil map", got)
	}
}
