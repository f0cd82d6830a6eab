package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/service/mitre"
	"github.com/secmon-lab/themis/pkg/usecase"
)

type stubMitreService struct {
	result *mitre.Result
	err    error
	calls  int
}

func (s *stubMitreService) FetchTechniques(ctx context.Context) (*mitre.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func TestMitreUseCase_GetTechniques(t *testing.T) {
	t.Run("caches successful fetches", func(t *testing.T) {
		svc := &stubMitreService{
			result: &mitre.Result{
				Techniques: mitre.SampleTechniques()[:3],
				Source:     mitre.SourceRemote,
				FetchedAt:  time.Now().UTC(),
			},
		}
		uc := usecase.NewMitreUseCase(svc, mitre.NewCache(0))
		ctx := context.Background()

		first := uc.GetTechniques(ctx)
		gt.Value(t, first.Source).Equal(mitre.SourceRemote)
		gt.Array(t, first.Techniques).Length(3)

		second := uc.GetTechniques(ctx)
		gt.Value(t, second.Source).Equal(mitre.SourceRemote)
		gt.Number(t, svc.calls).Equal(1)
	})

	t.Run("service error yields the error fallback", func(t *testing.T) {
		svc := &stubMitreService{err: goerr.New("feed unreachable")}
		uc := usecase.NewMitreUseCase(svc, mitre.NewCache(0))

		result := uc.GetTechniques(context.Background())
		gt.Value(t, result.Source).Equal(mitre.SourceErrorFallback)
		gt.Array(t, result.Techniques).Length(15)
		gt.String(t, result.Note).NotEqual("")
	})

	t.Run("fallback results are not cached", func(t *testing.T) {
		svc := &stubMitreService{err: goerr.New("feed unreachable")}
		uc := usecase.NewMitreUseCase(svc, mitre.NewCache(0))
		ctx := context.Background()

		uc.GetTechniques(ctx)
		uc.GetTechniques(ctx)
		gt.Number(t, svc.calls).Equal(2)
	})

	t.Run("expired cache entries trigger a refetch", func(t *testing.T) {
		svc := &stubMitreService{
			result: &mitre.Result{
				Techniques: mitre.SampleTechniques(),
				Source:     mitre.SourceRemote,
				FetchedAt:  time.Now().UTC(),
			},
		}
		cache := mitre.NewCache(time.Nanosecond)
		uc := usecase.NewMitreUseCase(svc, cache)
		ctx := context.Background()

		uc.GetTechniques(ctx)
		time.Sleep(time.Millisecond)
		uc.GetTechniques(ctx)
		gt.Number(t, svc.calls).Equal(2)
	})
}
