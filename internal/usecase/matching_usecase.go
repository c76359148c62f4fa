package usecase

import (
	"errors"

	"skill-alert/internal/domain/matching"
)

type Scorer interface {
	Compute(req matching.Request) (matching.Result, error)
}

type MatchingUsecase interface {
	Evaluate(req matching.Request) (matching.Result, error)
}

type Matching struct {
	scorer Scorer
}

func NewMatchingUsecase(scorer Scorer) *Matching {
	return &Matching{scorer: scorer}
}

func (u *Matching) Evaluate(req matching.Request) (matching.Result, error) {
	res, err := u.scorer.Compute(req)
	if err != nil {
		if errors.Is(err, matching.ErrInvalidRequest) {
			return matching.Result{}, invalid(err)
		}
		return matching.Result{}, ErrInternal
	}
	return res, nil
}
