package databases

import (
	"testing"

	"github.com/tutorkit/tutorkit/pkg/config"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.VectorStoreConfig
		wantErr bool
	}{
		{name: "chromem", cfg: config.VectorStoreConfig{Type: "chromem"}, wantErr: false},
		{name: "chroma", cfg: config.VectorStoreConfig{Type: "chroma", Host: "localhost"}, wantErr: false},
		{name: "unknown", cfg: config.VectorStoreConfig{Type: "faiss"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && provider == nil {
				t.Fatal("NewProvider() returned nil provider")
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	provider := newTestChromem(t)
	if err := reg.RegisterProvider("main", provider); err != nil {
		t.Fatalf("RegisterProvider() error = %v", err)
	}

	if err := reg.RegisterProvider("nil", nil); err == nil {
		t.Error("RegisterProvider(nil) should fail")
	}

	got, err := reg.GetProvider("main")
	if err != nil {
		t.Fatalf("GetProvider() error = %v", err)
	}
	if got != Provider(provider) {
		t.Error("GetProvider() returned a different provider")
	}

	if _, err := reg.GetProvider("missing"); err == nil {
		t.Error("GetProvider(missing) should fail")
	}
}
