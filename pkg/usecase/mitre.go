package usecase

import (
	"context"
	"time"

	"github.com/secmon-lab/themis/pkg/service/mitre"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

type MitreUseCase struct {
	service mitre.Service
	cache   *mitre.Cache
}

func NewMitreUseCase(service mitre.Service, cache *mitre.Cache) *MitreUseCase {
	return &MitreUseCase{
		service: service,
		cache:   cache,
	}
}

// GetTechniques returns ATT&CK techniques for an authenticated caller. The
// contract is that this never fails: a fresh cache entry is served when
// available, an inline fetch already degrades to the sample set on feed
// trouble, and any remaining failure is substituted with the sample set
// under the error-fallback label.
func (uc *MitreUseCase) GetTechniques(ctx context.Context) (result *mitre.Result) {
	defer func() {
		if r := recover(); r != nil {
			logging.From(ctx).Error("technique fetch panicked, serving sample data", "panic", r)
			result = errorFallbackResult()
		}
	}()

	if cached, ok := uc.cache.Get(time.Now()); ok {
		return cached
	}

	fetched, err := uc.service.FetchTechniques(ctx)
	if err != nil {
		logging.From(ctx).Error("technique fetch failed, serving sample data", "error", err.Error())
		return errorFallbackResult()
	}

	uc.cache.Set(fetched)
	return fetched
}

func errorFallbackResult() *mitre.Result {
	return &mitre.Result{
		Techniques: mitre.SampleTechniques(),
		Source:     mitre.SourceErrorFallback,
		Note:       "Technique retrieval failed; serving sample data",
		FetchedAt:  time.Now().UTC(),
	}
}
