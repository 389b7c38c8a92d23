package envstruct_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/liftcycle/liftcycle/internal/envstruct"
)

type testConfig struct {
	Addr           string `env:"TEST_ADDR" envDefault:"localhost:0"`
	SqliteURL      string `env:"TEST_SQLITE_URL"`
	TransitionHour int    `env:"TEST_TRANSITION_HOUR" envDefault:"3"`
	Verbose        bool   `env:"TEST_VERBOSE" envDefault:"false"`
	ignored        string //nolint:unused // verifies untagged fields are skipped
}

func mapLookup(env map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
}

func TestPopulate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    testConfig
		wantErr error
	}{
		{
			name: "all values from environment",
			env: map[string]string{
				"TEST_ADDR":            "localhost:8080",
				"TEST_SQLITE_URL":      ":memory:",
				"TEST_TRANSITION_HOUR": "5",
				"TEST_VERBOSE":         "true",
			},
			want: testConfig{
				Addr:           "localhost:8080",
				SqliteURL:      ":memory:",
				TransitionHour: 5,
				Verbose:        true,
			},
		},
		{
			name: "defaults applied for unset variables",
			env:  map[string]string{"TEST_SQLITE_URL": "./db.sqlite3"},
			want: testConfig{
				Addr:           "localhost:0",
				SqliteURL:      "./db.sqlite3",
				TransitionHour: 3,
				Verbose:        false,
			},
		},
		{
			name:    "missing variable without default",
			env:     map[string]string{},
			wantErr: envstruct.ErrEnvNotSet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg testConfig
			err := envstruct.Populate(&cfg, mapLookup(tt.env))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Populate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Populate() returned error: %v", err)
			}
			if diff := cmp.Diff(tt.want, cfg, cmp.AllowUnexported(testConfig{})); diff != "" {
				t.Errorf("Populate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPopulateRejectsBadInput(t *testing.T) {
	lookup := mapLookup(map[string]string{"TEST_SQLITE_URL": ":memory:"})

	var cfg testConfig
	if err := envstruct.Populate(cfg, lookup); !errors.Is(err, envstruct.ErrInvalidValue) {
		t.Errorf("Populate(non-pointer) error = %v, want ErrInvalidValue", err)
	}

	s := "hello"
	if err := envstruct.Populate(&s, lookup); !errors.Is(err, envstruct.ErrInvalidValue) {
		t.Errorf("Populate(pointer to non-struct) error = %v, want ErrInvalidValue", err)
	}
}

func TestPopulateRejectsUnparsableValues(t *testing.T) {
	var cfg testConfig
	err := envstruct.Populate(&cfg, mapLookup(map[string]string{
		"TEST_SQLITE_URL":      ":memory:",
		"TEST_TRANSITION_HOUR": "noon",
	}))
	if err == nil {
		t.Error("Populate() with unparsable int should return an error")
	}
}
