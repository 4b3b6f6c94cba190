package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultBootstrapURL = "https://data.iana.org/rdap/dns.json"

const (
	bootstrapMetaVersion     = "bootstrap_version"
	bootstrapMetaPublication = "bootstrap_publication"
	bootstrapMetaFetchedAt   = "bootstrap_fetched_at"
)

// BootstrapStore persists the IANA RDAP server registry.
type BootstrapStore interface {
	SetRDAPServers(ctx context.Context, tld string, servers []string, updatedAt time.Time) error
	GetRDAPServers(ctx context.Context, tld string) ([]string, error)
	SetBootstrapMeta(ctx context.Context, key, value string) error
	GetBootstrapMeta(ctx context.Context, key string) (string, error)
	CountBootstrapTLDs(ctx context.Context) (int, error)
}

// BootstrapService fetches the IANA RDAP bootstrap registry and caches
// it in the store, turning the store into a ServerSource that covers
// every delegated TLD.
type BootstrapService struct {
	Store      BootstrapStore
	HTTPClient *http.Client
	BaseURL    string
	Clock      func() time.Time
}

type bootstrapDocument struct {
	Version     string       `json:"version"`
	Publication string       `json:"publication"`
	Services    [][][]string `json:"services"`
}

// BootstrapSummary reports the outcome of an Update.
type BootstrapSummary struct {
	TLDCount    int
	Version     string
	Publication time.Time
	FetchedAt   time.Time
}

// Update fetches bootstrap data from IANA and stores it.
func (b *BootstrapService) Update(ctx context.Context) (*BootstrapSummary, error) {
	if b == nil || b.Store == nil {
		return nil, errors.New("bootstrap store is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client := b.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	baseURL := strings.TrimSpace(b.BaseURL)
	if baseURL == "" {
		baseURL = defaultBootstrapURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build bootstrap request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bootstrap data: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("bootstrap request failed: status %d", resp.StatusCode)
	}

	var doc bootstrapDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode bootstrap data: %w", err)
	}

	updatedAt := b.now()
	tldCount := 0

	for _, service := range doc.Services {
		if len(service) != 2 {
			continue
		}
		tlds := service[0]
		urls := service[1]
		if len(tlds) == 0 || len(urls) == 0 {
			continue
		}

		for _, tld := range tlds {
			if err := b.Store.SetRDAPServers(ctx, tld, urls, updatedAt); err != nil {
				return nil, err
			}
			tldCount++
		}
	}

	publication, _ := time.Parse(time.RFC3339, doc.Publication)

	_ = b.Store.SetBootstrapMeta(ctx, bootstrapMetaVersion, doc.Version)
	_ = b.Store.SetBootstrapMeta(ctx, bootstrapMetaPublication, doc.Publication)
	_ = b.Store.SetBootstrapMeta(ctx, bootstrapMetaFetchedAt, updatedAt.Format(time.RFC3339))

	return &BootstrapSummary{
		TLDCount:    tldCount,
		Version:     doc.Version,
		Publication: publication,
		FetchedAt:   updatedAt,
	}, nil
}

// Status reports the cached bootstrap state without fetching.
func (b *BootstrapService) Status(ctx context.Context) (*BootstrapSummary, error) {
	if b == nil || b.Store == nil {
		return nil, fmt.Errorf("bootstrap store not configured")
	}

	count, err := b.Store.CountBootstrapTLDs(ctx)
	if err != nil {
		return nil, err
	}

	summary := &BootstrapSummary{TLDCount: count}
	if version, err := b.Store.GetBootstrapMeta(ctx, bootstrapMetaVersion); err == nil {
		summary.Version = version
	}
	if publication, err := b.Store.GetBootstrapMeta(ctx, bootstrapMetaPublication); err == nil {
		summary.Publication, _ = time.Parse(time.RFC3339, publication)
	}
	if fetched, err := b.Store.GetBootstrapMeta(ctx, bootstrapMetaFetchedAt); err == nil {
		summary.FetchedAt, _ = time.Parse(time.RFC3339, fetched)
	}
	return summary, nil
}

// StoreServers adapts a BootstrapStore into a ServerSource.
type StoreServers struct {
	Store BootstrapStore
}

// RDAPServers implements ServerSource. Missing TLDs fall back to the
// built-in static map so a sweep works before the first bootstrap run.
func (s StoreServers) RDAPServers(ctx context.Context, tld string) ([]string, error) {
	if s.Store != nil {
		servers, err := s.Store.GetRDAPServers(ctx, tld)
		if err != nil {
			return nil, err
		}
		if len(servers) > 0 {
			return servers, nil
		}
	}
	return defaultRDAPServers.RDAPServers(ctx, tld)
}

func (b *BootstrapService) now() time.Time {
	if b != nil && b.Clock != nil {
		return b.Clock()
	}
	return time.Now().UTC()
}
