package mitre

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/secmon-lab/themis/pkg/utils/safe"
)

// DefaultFeedURL is the MITRE ATT&CK enterprise STIX bundle
const DefaultFeedURL = "https://raw.githubusercontent.com/mitre/cti/master/enterprise-attack/enterprise-attack.json"

const defaultTimeout = 30 * time.Second

type client struct {
	feedURL    string
	httpClient *http.Client
}

// Option configures the MITRE client
type Option func(*client)

// WithFeedURL overrides the STIX bundle URL
func WithFeedURL(url string) Option {
	return func(c *client) {
		c.feedURL = url
	}
}

// WithHTTPClient overrides the HTTP client, used by tests
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) {
		c.httpClient = httpClient
	}
}

// New creates a MITRE ATT&CK technique service backed by the STIX feed
func New(opts ...Option) Service {
	c := &client{
		feedURL: DefaultFeedURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchTechniques fetches the remote STIX bundle and extracts techniques.
// Any remote failure, parse failure, or empty extraction degrades to the
// built-in sample set; the caller always receives usable data.
func (c *client) FetchTechniques(ctx context.Context) (*Result, error) {
	techniques, err := c.fetchRemote(ctx)
	if err != nil {
		logging.From(ctx).Warn("MITRE feed unavailable, serving sample data",
			"error", err.Error(), "feedURL", c.feedURL)
		return &Result{
			Techniques: SampleTechniques(),
			Source:     SourceFallback,
			Note:       "Remote MITRE ATT&CK feed unavailable; serving sample data",
			FetchedAt:  time.Now().UTC(),
		}, nil
	}

	return &Result{
		Techniques: techniques,
		Source:     SourceRemote,
		FetchedAt:  time.Now().UTC(),
	}, nil
}

func (c *client) fetchRemote(ctx context.Context) ([]*model.Technique, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build feed request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch STIX bundle")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected feed status", goerr.V("status", resp.StatusCode))
	}

	var bundle stixBundle
	if err := json.NewDecoder(resp.Body).Decode(&bundle); err != nil {
		return nil, goerr.Wrap(err, "failed to decode STIX bundle")
	}

	techniques := extractTechniques(&bundle)
	if len(techniques) == 0 {
		return nil, goerr.New("no valid techniques in STIX bundle")
	}

	return techniques, nil
}

// extractTechniques converts STIX attack-pattern objects into techniques.
// Entries with neither a resolved ID nor a name are dropped.
func extractTechniques(bundle *stixBundle) []*model.Technique {
	var techniques []*model.Technique
	for i := range bundle.Objects {
		obj := &bundle.Objects[i]
		if obj.Type != "attack-pattern" || obj.Revoked || obj.Deprecated {
			continue
		}

		id := obj.ID
		var url string
		for _, ref := range obj.ExternalReferences {
			if ref.SourceName == "mitre-attack" {
				if ref.ExternalID != "" {
					id = ref.ExternalID
				}
				url = ref.URL
				break
			}
		}

		tactic, tacticName := primaryTactic(obj.KillChainPhases)

		if id == "" && obj.Name == "" {
			continue
		}

		techniques = append(techniques, &model.Technique{
			ID:          id,
			Name:        obj.Name,
			Description: obj.Description,
			Tactic:      tactic,
			TacticName:  tacticName,
			URL:         url,
		})
	}
	return techniques
}

// primaryTactic resolves the first mitre-attack kill-chain phase into a
// tactic slug and display name, defaulting to "Unknown Tactic".
func primaryTactic(phases []stixKillChainPhase) (string, string) {
	for _, phase := range phases {
		if phase.KillChainName != "mitre-attack" || phase.PhaseName == "" {
			continue
		}
		return phase.PhaseName, tacticDisplayName(phase.PhaseName)
	}
	return "unknown", "Unknown Tactic"
}

// tacticDisplayName turns a phase slug like "initial-access" into "Initial Access"
func tacticDisplayName(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
