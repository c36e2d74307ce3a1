package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"yackgo/pkg/config"
)

func TestRun(t *testing.T) {
	probes := []Probe{
		{
			Name: "Success Probe",
			Check: func(ctx context.Context) error {
				return nil
			},
			Critical: true,
		},
		{
			Name: "Failure Probe (Non-Critical)",
			Check: func(ctx context.Context) error {
				return errors.New("minor issue")
			},
			Critical: false,
		},
	}

	results := Run(context.Background(), probes)

	if len(results) != 2 {
		t.Errorf("Expected 2 results, got %d", len(results))
	}

	if results[0].Error != nil {
		t.Errorf("Expected success probe to pass, got error: %v", results[0].Error)
	}

	if results[1].Error == nil {
		t.Error("Expected failure probe to fail, got nil")
	}
}

func TestRun_SkipsAfterCriticalFailure(t *testing.T) {
	ran := false
	probes := []Probe{
		{Name: "Store", Check: func(context.Context) error { return errors.New("locked") }, Critical: true},
		{Name: "Audio", Check: func(context.Context) error { ran = true; return nil }},
	}

	results := Run(context.Background(), probes)

	if ran {
		t.Error("expected the probe after a critical failure not to run")
	}
	if !results[1].Skipped || !errors.Is(results[1].Error, ErrSkipped) {
		t.Errorf("expected second probe skipped, got %+v", results[1])
	}
	if err := AnalyzeResults(nil, results); err == nil {
		t.Error("expected a critical error")
	}
}

func TestRun_ProbeTimeout(t *testing.T) {
	probes := []Probe{{
		Name:    "Slow",
		Timeout: 10 * time.Millisecond,
		Check: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}}

	results := Run(context.Background(), probes)

	if !errors.Is(results[0].Error, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", results[0].Error)
	}
}

func TestAnalyzeResults(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		wantErr bool
	}{
		{
			name: "All Pass",
			results: []Result{
				{Probe: Probe{Name: "P1", Critical: true}, Error: nil},
			},
			wantErr: false,
		},
		{
			name: "Critical Failure",
			results: []Result{
				{Probe: Probe{Name: "P1", Critical: true}, Error: errors.New("fail")},
			},
			wantErr: true,
		},
		{
			name: "Non-Critical Failure",
			results: []Result{
				{Probe: Probe{Name: "P1", Critical: false}, Error: errors.New("fail")},
			},
			wantErr: false,
		},
		{
			name: "Mixed Failure",
			results: []Result{
				{Probe: Probe{Name: "P1", Critical: false}, Error: errors.New("fail")},
				{Probe: Probe{Name: "P2", Critical: true}, Error: errors.New("fail")},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AnalyzeResults(nil, tt.results)
			if (err != nil) != tt.wantErr {
				t.Errorf("AnalyzeResults() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

type memState map[string]string

func (m memState) GetState(_ context.Context, key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m memState) SetState(_ context.Context, key, val string) error {
	m[key] = val
	return nil
}

func (m memState) DeleteState(_ context.Context, key string) error {
	delete(m, key)
	return nil
}

type stuckState struct{ memState }

func (stuckState) GetState(context.Context, string) (string, bool) { return "", false }

func TestStoreCheck(t *testing.T) {
	st := memState{}
	if err := StoreCheck(st)(context.Background()); err != nil {
		t.Fatalf("StoreCheck failed: %v", err)
	}
	if len(st) != 0 {
		t.Errorf("expected ping key removed, got %v", st)
	}

	if err := StoreCheck(stuckState{memState{}})(context.Background()); err == nil {
		t.Error("expected mismatch error")
	}
}

func TestInputCheck(t *testing.T) {
	dir := t.TempDir()
	regular, err := os.CreateTemp(dir, "stdin")
	if err != nil {
		t.Fatal(err)
	}
	defer regular.Close()

	tests := []struct {
		name    string
		cfg     config.InputConfig
		wantErr bool
	}{
		{"SerialPresent", config.InputConfig{Provider: "serial", Serial: config.SerialConfig{Port: regular.Name()}}, false},
		{"SerialMissing", config.InputConfig{Provider: "serial", Serial: config.SerialConfig{Port: filepath.Join(dir, "ttyUSB9")}}, true},
		{"SerialUnset", config.InputConfig{Provider: "serial"}, true},
		{"TerminalNotTTY", config.InputConfig{Provider: "terminal"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InputCheck(&tt.cfg, regular)(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("InputCheck() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAudioCheck(t *testing.T) {
	boom := errors.New("no device")
	if err := AudioCheck(func() error { return boom })(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected %v, got %v", boom, err)
	}
}
