package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"skill-alert/internal/domain/alert"
	"skill-alert/internal/domain/cadence"
	"skill-alert/internal/domain/matching"
	"skill-alert/internal/domain/notification"
	"skill-alert/internal/domain/resume"
	"skill-alert/internal/domain/skill"
	"skill-alert/internal/repository"
)

var testNow = time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC) // Monday

func clock() time.Time { return testNow }

type stubAlertRepo struct {
	alerts map[uuid.UUID]alert.Alert
	err    error
}

func (s *stubAlertRepo) ListActive(context.Context) ([]alert.Alert, error) { return nil, s.err }

func (s *stubAlertRepo) GetByID(_ context.Context, id uuid.UUID) (alert.Alert, error) {
	if s.err != nil {
		return alert.Alert{}, s.err
	}
	a, ok := s.alerts[id]
	if !ok {
		return alert.Alert{}, repository.ErrNotFound
	}
	return a, nil
}

func (s *stubAlertRepo) Create(_ context.Context, a alert.Alert) error {
	s.alerts[a.ID] = a
	return nil
}

func (s *stubAlertRepo) MarkSent(_ context.Context, id uuid.UUID, at time.Time) (time.Time, error) {
	a := s.alerts[id]
	a = a.WithCadence(alert.MarkSent(a.Cadence(), at))
	s.alerts[id] = a
	return *a.LastSentAt, nil
}

func (s *stubAlertRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	a, ok := s.alerts[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Active = active
	s.alerts[id] = a
	return nil
}

type stubResumeRepo struct {
	resumes map[uuid.UUID]resume.Resume
}

func (s *stubResumeRepo) Latest(_ context.Context, userID uuid.UUID) (resume.Resume, error) {
	r, ok := s.resumes[userID]
	if !ok {
		return resume.Resume{}, repository.ErrNotFound
	}
	return r, nil
}

type stubPrefRepo struct {
	prefs map[uuid.UUID]notification.Preference
	saves int
}

func (s *stubPrefRepo) Get(_ context.Context, userID uuid.UUID) (notification.Preference, error) {
	p, ok := s.prefs[userID]
	if !ok {
		return notification.Preference{}, repository.ErrNotFound
	}
	return p, nil
}

func (s *stubPrefRepo) Save(_ context.Context, p notification.Preference) error {
	s.saves++
	s.prefs[p.UserID] = p
	return nil
}

func (s *stubPrefRepo) ListDigestCandidates(context.Context) ([]notification.Preference, error) {
	return nil, nil
}

func (s *stubPrefRepo) MarkDigestSent(context.Context, uuid.UUID, time.Time) error { return nil }

type stubContactRepo struct {
	known map[uuid.UUID]bool
}

func (s *stubContactRepo) Get(_ context.Context, userID uuid.UUID) (repository.Contact, error) {
	if !s.known[userID] {
		return repository.Contact{}, repository.ErrNotFound
	}
	return repository.Contact{UserID: userID, Email: "u@example.com"}, nil
}

func TestSkillUsecase(t *testing.T) {
	uc := NewSkillUsecase(skill.NewExtractor(skill.FallbackRegistry()), nil)

	if len(uc.ListSkills()) != skill.FallbackRegistry().Len() {
		t.Fatalf("expected every registry token to be listed")
	}
	got := uc.Extract("Go, Docker and PostgreSQL")
	if len(got) != 3 || got[0] != "Docker" || got[1] != "Go" || got[2] != "PostgreSQL" {
		t.Fatalf("unexpected extraction: %v", got)
	}

	cmp := uc.Compare("Go and Docker", "Go, Kubernetes")
	if cmp.Percentage != 50 || len(cmp.Matched) != 1 || cmp.Missing[0] != "Kubernetes" {
		t.Fatalf("unexpected comparison: %+v", cmp)
	}
	if blank := uc.Compare("   ", "Go"); blank.Percentage != 0 || len(blank.Missing) != 1 {
		t.Fatalf("expected blank resume to score 0, got %+v", blank)
	}
}

func TestMatchingUsecase_MapsErrors(t *testing.T) {
	uc := NewMatchingUsecase(matching.NewEngine(nil, nil))

	if _, err := uc.Evaluate(matching.Request{Threshold: 120}); !errors.Is(err, ErrInvalidInput) || !errors.Is(err, matching.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidInput wrapping ErrInvalidRequest, got %v", err)
	}
	res, err := uc.Evaluate(matching.Request{ResumeText: "Go", RequiredSkillsText: "Go", Threshold: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SkillScore != 100 || !res.Matched {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func newAlertFixture() (*Alert, *stubAlertRepo, alert.Alert) {
	a := alert.New(uuid.New(), "Backend", testNow.Add(-72*time.Hour))
	a.RequiredSkills = "Go,Docker"
	a.MatchThreshold = 50
	repo := &stubAlertRepo{alerts: map[uuid.UUID]alert.Alert{a.ID: a}}
	resumes := &stubResumeRepo{resumes: map[uuid.UUID]resume.Resume{
		a.UserID: {ID: uuid.New(), UserID: a.UserID, Content: "Go and Docker, 5 years"},
	}}
	return NewAlertUsecase(repo, resumes, matching.NewEngine(nil, nil), clock), repo, a
}

func TestAlertUsecase_CadenceLifecycle(t *testing.T) {
	uc, repo, a := newAlertFixture()
	ctx := context.Background()

	v, err := uc.Cadence(ctx, a.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.ShouldProcess || v.NextDueAt != nil || v.Frequency != string(cadence.Daily) {
		t.Fatalf("expected a never-sent alert to be due now, got %+v", v)
	}

	v, err = uc.MarkSent(ctx, a.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ShouldProcess || v.NextDueAt == nil || !v.NextDueAt.Equal(testNow.AddDate(0, 0, 1)) {
		t.Fatalf("expected next due in one day, got %+v", v)
	}

	v, err = uc.SetActive(ctx, a.ID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Active || repo.alerts[a.ID].Active {
		t.Fatalf("expected alert to be deactivated")
	}
	if v.LastSentAt == nil {
		t.Fatalf("expected deactivation to keep last_sent_at")
	}
}

func TestAlertUsecase_Errors(t *testing.T) {
	uc, repo, a := newAlertFixture()
	ctx := context.Background()

	if _, err := uc.Cadence(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := uc.Cadence(ctx, uuid.Nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	bad := repo.alerts[a.ID]
	bad.MatchThreshold = 150
	repo.alerts[a.ID] = bad
	if _, err := uc.Evaluate(ctx, a.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad threshold, got %v", err)
	}

	repo.err = errors.New("connection reset")
	if _, err := uc.Cadence(ctx, a.ID); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestAlertUsecase_Evaluate(t *testing.T) {
	uc, _, a := newAlertFixture()

	res, err := uc.Evaluate(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SkillScore != 100 || res.ExperienceYears != 5 || !res.Matched {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func newPreferenceFixture() (*Preference, *stubPrefRepo, uuid.UUID) {
	userID := uuid.New()
	prefs := &stubPrefRepo{prefs: map[uuid.UUID]notification.Preference{}}
	contacts := &stubContactRepo{known: map[uuid.UUID]bool{userID: true}}
	return NewPreferenceUsecase(prefs, contacts, clock), prefs, userID
}

func TestPreferenceUsecase_GetCreatesDefaults(t *testing.T) {
	uc, repo, userID := newPreferenceFixture()
	ctx := context.Background()

	p, err := uc.Get(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.OptedIn || p.PreferredHour != notification.DefaultHour || repo.saves != 1 {
		t.Fatalf("expected stored defaults, got %+v (saves=%d)", p, repo.saves)
	}
	if _, err := uc.Get(ctx, userID); err != nil || repo.saves != 1 {
		t.Fatalf("expected second read not to save again, got err=%v saves=%d", err, repo.saves)
	}

	if _, err := uc.Get(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestPreferenceUsecase_UpdateAndOptOut(t *testing.T) {
	uc, repo, userID := newPreferenceFixture()
	ctx := context.Background()

	hour := 25
	if _, err := uc.Update(ctx, userID, notification.Update{PreferredHour: &hour}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	tz := "Asia/Jakarta"
	p, err := uc.Update(ctx, userID, notification.Update{Timezone: &tz})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.prefs[userID].Timezone != tz || p.Timezone != tz {
		t.Fatalf("expected timezone to be stored, got %q", repo.prefs[userID].Timezone)
	}

	p, err = uc.OptOut(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.OptedIn || p.OptedOutAt == nil {
		t.Fatalf("expected opted out, got %+v", p)
	}

	score := 90.0
	el, err := uc.Eligibility(ctx, userID, &score)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if el.ShouldNotify || el.ShouldDigest || *el.ShouldNotifyMatch {
		t.Fatalf("expected nothing after opt-out, got %+v", el)
	}

	if _, err := uc.OptIn(ctx, userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	el, err = uc.Eligibility(ctx, userID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !el.ShouldNotify || !el.ShouldDigest || el.ShouldNotifyMatch != nil {
		t.Fatalf("unexpected eligibility after opt-in: %+v", el)
	}
}
