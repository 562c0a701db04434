package config

import (
	"sync"
	"testing"
)

func TestSetAndGetConfig(t *testing.T) {
	original := GetConfig()
	defer SetConfig(original)

	cfg := NewDefaultConfig()
	SetConfig(cfg)

	if got := GetConfig(); got != cfg {
		t.Errorf("GetConfig() = %p, want %p", got, cfg)
	}
}

func TestMustGetConfigPanicsWhenUnset(t *testing.T) {
	original := GetConfig()
	defer SetConfig(original)

	SetConfig(nil)

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustGetConfig() should panic when configuration is not initialized")
		}
	}()
	MustGetConfig()
}

func TestGetConfigConcurrent(t *testing.T) {
	original := GetConfig()
	defer SetConfig(original)

	cfg := NewDefaultConfig()
	SetConfig(cfg)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := GetConfig(); got != cfg {
				t.Errorf("GetConfig() = %p, want %p", got, cfg)
			}
		}()
	}
	wg.Wait()
}
