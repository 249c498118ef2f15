// Package session owns the active learner: who is signed in, their course,
// and every mutation that must reach the Save Record.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/learneye/internal/content"
	"github.com/abhisek/learneye/internal/course"
	"github.com/abhisek/learneye/internal/learner"
	"github.com/abhisek/learneye/internal/store"
)

// ErrNoActiveUser is returned by operations that need a signed-in learner.
var ErrNoActiveUser = errors.New("no active user")

// ErrStaleCourse is returned when a course arrives after its learner
// signed out or switched. The course is discarded.
var ErrStaleCourse = errors.New("learner changed while generating course")

// CourseGenerator produces a learning path for a goal.
type CourseGenerator interface {
	GenerateCourse(ctx context.Context, goal string, persona learner.Persona, language string) (*course.Course, error)
}

// Controller tracks the signed-in learner and writes every change through
// to the Save Record.
type Controller struct {
	repo   *store.SaveRecordRepo
	gen    CourseGenerator
	policy course.Policy
	log    *zap.Logger

	group singleflight.Group

	mu      sync.Mutex
	profile *learner.Profile
	course  *course.Course
	epoch   uint64
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewController creates a Controller with nobody signed in.
func NewController(repo *store.SaveRecordRepo, gen CourseGenerator, policy course.Policy, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		repo:   repo,
		gen:    gen,
		policy: policy,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Policy returns the pass and reward rules in use.
func (c *Controller) Policy() course.Policy {
	return c.policy
}

// Profile returns the active profile.
func (c *Controller) Profile() (learner.Profile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil {
		return learner.Profile{}, false
	}
	return *c.profile, true
}

// Course returns a copy of the active learner's course, or nil.
func (c *Controller) Course() *course.Course {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.course.Clone()
}

// TotalXP is the active learner's XP, or zero when nobody is signed in.
func (c *Controller) TotalXP() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil {
		return 0
	}
	return c.profile.XP
}

// SelectUser signs in by name. A stored learner is restored together with
// their course and the candidate is discarded. An unknown name becomes a
// new learner at zero XP with no course. returning reports which case
// applied.
func (c *Controller) SelectUser(ctx context.Context, candidate learner.Profile) (profile learner.Profile, returning bool, err error) {
	key := learner.NameKey(candidate.Name)
	if key == "" {
		return learner.Profile{}, false, fmt.Errorf("%w: empty name", learner.ErrInvalidProfile)
	}

	entry, ok := c.repo.Get(key)
	if !ok {
		entry = store.Entry{
			Profile: learner.NewProfile(key, candidate.Persona, candidate.Language, candidate.Goal),
		}
		if err := entry.Profile.Validate(); err != nil {
			return learner.Profile{}, false, err
		}
		if err := c.repo.Put(ctx, key, entry); err != nil {
			return learner.Profile{}, false, fmt.Errorf("save new learner: %w", err)
		}
		c.log.Info("learner created", zap.String("name", key))
	} else {
		c.log.Info("learner restored", zap.String("name", key), zap.Int("xp", entry.Profile.XP))
	}

	c.mu.Lock()
	c.resetLocked()
	p := entry.Profile
	c.profile = &p
	c.course = entry.Course
	c.mu.Unlock()

	return entry.Profile, ok, nil
}

// ClearUser signs out. The learner's record is kept and any in-flight
// course request is cancelled.
func (c *Controller) ClearUser() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile != nil {
		c.log.Info("learner signed out", zap.String("name", c.profile.Name))
	}
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.cancel()
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.epoch++
	c.profile = nil
	c.course = nil
}

// UpdateProfile replaces the active profile and keeps the course. A nil
// profile signs the learner out.
func (c *Controller) UpdateProfile(ctx context.Context, p *learner.Profile) error {
	if p == nil {
		c.ClearUser()
		return nil
	}
	if err := p.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil {
		return ErrNoActiveUser
	}
	key := c.profile.Key()
	if p.Key() != key {
		return fmt.Errorf("%w: cannot rename %q to %q", learner.ErrInvalidProfile, c.profile.Name, p.Name)
	}

	entry := store.Entry{Profile: *p, Course: c.course}
	if err := c.repo.Put(ctx, key, entry); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	np := *p
	c.profile = &np
	return nil
}

// AwardXP adds delta XP to the active learner and persists the profile.
func (c *Controller) AwardXP(ctx context.Context, delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil {
		return ErrNoActiveUser
	}

	p := *c.profile
	if err := p.AwardXP(delta); err != nil {
		return err
	}
	if err := c.repo.PutProfile(ctx, p); err != nil {
		return fmt.Errorf("save xp: %w", err)
	}
	c.profile = &p
	return nil
}

// EnsureCourse returns the active course, generating and persisting one
// when the learner has none. Concurrent calls share one request. Failures
// return content.ErrContentUnavailable and leave the course nil.
func (c *Controller) EnsureCourse(ctx context.Context) (*course.Course, error) {
	c.mu.Lock()
	if c.profile == nil {
		c.mu.Unlock()
		return nil, ErrNoActiveUser
	}
	if c.course != nil {
		out := c.course.Clone()
		c.mu.Unlock()
		return out, nil
	}
	p := *c.profile
	epoch := c.epoch
	sessCtx := c.ctx
	c.mu.Unlock()

	key := p.Key() + "#" + strconv.FormatUint(epoch, 10)
	v, err, shared := c.group.Do(key, func() (any, error) {
		genCtx, cancel := mergeCancel(ctx, sessCtx)
		defer cancel()
		return c.generate(genCtx, p, epoch)
	})
	if err != nil {
		if errors.Is(err, ErrStaleCourse) {
			return nil, err
		}
		if !errors.Is(err, content.ErrContentUnavailable) {
			err = fmt.Errorf("%w: %w", content.ErrContentUnavailable, err)
		}
		return nil, err
	}
	if shared {
		c.log.Debug("course request shared", zap.String("name", p.Name))
	}
	return v.(*course.Course).Clone(), nil
}

func (c *Controller) generate(ctx context.Context, p learner.Profile, epoch uint64) (*course.Course, error) {
	crs, err := c.gen.GenerateCourse(ctx, p.Goal, p.Persona, p.Language)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch || c.profile == nil {
		if err != nil {
			return nil, ErrStaleCourse
		}
		c.log.Info("discarding stale course", zap.String("name", p.Name))
		return nil, ErrStaleCourse
	}
	if err != nil {
		return nil, err
	}
	if c.course != nil {
		return c.course, nil
	}
	if err := c.repo.PutCourse(context.WithoutCancel(ctx), p.Key(), crs); err != nil {
		return nil, fmt.Errorf("save course: %w", err)
	}
	c.course = crs
	return crs, nil
}

// CommitQuizResult applies a finished quiz to the active course, then
// persists the course and the awarded XP.
func (c *Controller) CommitQuizResult(moduleIndex, score int) (course.QuizOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil {
		return course.QuizOutcome{}, ErrNoActiveUser
	}
	if c.course == nil {
		return course.QuizOutcome{}, fmt.Errorf("commit quiz: %w", course.ErrNoModules)
	}

	out, err := course.ApplyQuizResult(c.course, moduleIndex, score, c.policy)
	if err != nil {
		return course.QuizOutcome{}, err
	}

	p := *c.profile
	if err := p.AwardXP(out.XPDelta); err != nil {
		return course.QuizOutcome{}, err
	}

	ctx := context.Background()
	if err := c.repo.Put(ctx, p.Key(), store.Entry{Profile: p, Course: out.Course}); err != nil {
		return course.QuizOutcome{}, fmt.Errorf("save quiz result: %w", err)
	}

	c.course = out.Course
	c.profile = &p
	c.log.Info("quiz committed",
		zap.String("name", p.Name),
		zap.Int("module", moduleIndex),
		zap.Int("score", score),
		zap.Bool("passed", out.Passed),
		zap.Int("xp_delta", out.XPDelta))

	out.Course = out.Course.Clone()
	return out, nil
}

// mergeCancel returns a context cancelled when either parent is.
func mergeCancel(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(a)
	stop := context.AfterFunc(b, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Learners lists the stored learner names in sorted order.
func (c *Controller) Learners() []string {
	return c.repo.Names()
}
