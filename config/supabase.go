package config

import (
	"fmt"

	supa "github.com/supabase-community/supabase-go"
)

// NewSupabaseClient initializes the Supabase client from the loaded config.
// The client bundles the table (PostgREST), storage, and auth APIs; it is the
// only Entity Store collaborator the portal talks to.
func NewSupabaseClient(cfg *Config) (*supa.Client, error) {
	client, err := supa.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing Supabase client: %w", err)
	}
	return client, nil
}
