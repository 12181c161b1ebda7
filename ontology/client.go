package ontology

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/expki/go-hmdb/config"
	"github.com/expki/go-hmdb/logger"
	"golang.org/x/net/html/charset"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Client downloads namespace resources and keeps the lookups built from them.
type Client struct {
	http *http.Client
	urls map[Ontology]string

	fetches singleflight.Group
	lock    sync.RWMutex
	built   map[Ontology]Lookup
}

func NewClient(cfg config.Ontology, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: config.HTTP_TIMEOUT_ONTOLOGY}
	}
	urls := make(map[Ontology]string, len(Priority))
	for o, url := range map[Ontology]string{
		DiseaseOntology:        cfg.DiseaseOntology,
		HumanPhenotypeOntology: cfg.HumanPhenotypeOntology,
		MeSHDiseases:           cfg.MeSHDiseases,
	} {
		if url != "" {
			urls[o] = url
		}
	}
	return &Client{
		http:  client,
		urls:  urls,
		built: make(map[Ontology]Lookup, len(Priority)),
	}
}

// BuildLookup returns the lookup for one vocabulary, downloading it on first use.
func (c *Client) BuildLookup(ctx context.Context, o Ontology) (Lookup, error) {
	url, ok := c.urls[o]
	if !ok {
		return nil, fmt.Errorf("no resource configured for ontology %s", o)
	}

	// singleflight fetch
	value, err, _ := c.fetches.Do(string(o), func() (any, error) {
		c.lock.RLock()
		lookup, ok := c.built[o]
		c.lock.RUnlock()
		if ok {
			return lookup, nil
		}

		terms, err := c.fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		lookup = NewLookup(terms)

		c.lock.Lock()
		c.built[o] = lookup
		c.lock.Unlock()
		logger.Sugar().Infof("loaded %d %s terms", len(lookup), o)
		return lookup, nil
	})
	if err != nil {
		return nil, err
	}
	lookup, ok := value.(Lookup)
	if !ok {
		return nil, errors.New("failed to cast singleflight response value to type")
	}
	return lookup, nil
}

// BuildLookups loads every configured vocabulary concurrently. A vocabulary
// that cannot be loaded is logged and left out.
func (c *Client) BuildLookups(ctx context.Context) Lookups {
	var (
		g       errgroup.Group
		lock    sync.Mutex
		lookups = make(Lookups, len(Priority))
	)
	for _, o := range Priority {
		if _, ok := c.urls[o]; !ok {
			continue
		}
		g.Go(func() error {
			lookup, err := c.BuildLookup(ctx, o)
			if err != nil {
				logger.Sugar().Warnf("ontology %s unavailable, its cross references stay empty: %v", o, err)
				return nil
			}
			lock.Lock()
			lookups[o] = lookup
			lock.Unlock()
			return nil
		})
	}
	g.Wait()
	return lookups
}

func (c *Client) fetch(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Join(errors.New("failed to create request"), err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, errors.Join(errors.New("failed to send request"), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("response returned bad status code %s: %d", url, resp.StatusCode)
	}
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, errors.Join(errors.New("failed to decode response body"), err)
	}
	terms, err := ParseNamespace(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return terms, nil
}
