package services

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wenlng/go-captcha/v2/rotate"
)

// CaptchaService guards the admin login endpoint with a rotate captcha.
//
// Generate returns a challenge ID plus two base64 images (the rotated master
// and the thumb the admin drags). Verify checks the submitted angle against
// the stored target within a tolerance and consumes the challenge either way.
// Challenges live in memory with a TTL.
type CaptchaService interface {
	GenerateRotate(ctx context.Context) (*RotateChallenge, error)
	VerifyRotate(ctx context.Context, challengeID string, userAngle float64) bool
}

type RotateChallenge struct {
	ID                string
	MasterImageBase64 string
	ThumbImageBase64  string
}

type captchaServiceImpl struct {
	rotator rotate.Captcha
	store   *challengeStore
	padding int // acceptable angle difference in degrees
}

// NewCaptchaServiceRotate constructs a CaptchaService using rotate mode.
// imgSizePx is the square size of the generated images.
func NewCaptchaServiceRotate(ttl time.Duration, padding int, imgSizePx int) (CaptchaService, error) {
	if imgSizePx <= 0 {
		imgSizePx = 220
	}

	builder := rotate.NewBuilder(
		rotate.WithImageSquareSize(imgSizePx),
	)
	builder.SetResources(
		rotate.WithImages(captchaBackgrounds(3, imgSizePx)),
	)

	return &captchaServiceImpl{
		rotator: builder.Make(),
		store:   newChallengeStore(ttl),
		padding: padding,
	}, nil
}

func (s *captchaServiceImpl) GenerateRotate(ctx context.Context) (*RotateChallenge, error) {
	captData, err := s.rotator.Generate()
	if err != nil {
		return nil, err
	}

	block := captData.GetData()
	if block == nil {
		return nil, err
	}

	masterB64, err := captData.GetMasterImage().ToBase64()
	if err != nil {
		return nil, err
	}
	thumbB64, err := captData.GetThumbImage().ToBase64()
	if err != nil {
		return nil, err
	}

	challengeID := uuid.New().String()
	s.store.Put(challengeID, block.Angle)

	return &RotateChallenge{
		ID:                challengeID,
		MasterImageBase64: masterB64,
		ThumbImageBase64:  thumbB64,
	}, nil
}

func (s *captchaServiceImpl) VerifyRotate(ctx context.Context, challengeID string, userAngle float64) bool {
	targetAngle, ok := s.store.Take(challengeID)
	if !ok {
		return false
	}

	return rotate.Validate(int(math.Round(userAngle)), targetAngle, s.padding)
}

type challengeEntry struct {
	targetAngle int
	expiresAt   time.Time
}

// challengeStore holds pending challenges in memory with a TTL. Take removes
// the entry so a challenge cannot be replayed.
type challengeStore struct {
	mu  sync.Mutex
	m   map[string]challengeEntry
	ttl time.Duration
}

func newChallengeStore(ttl time.Duration) *challengeStore {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	cs := &challengeStore{
		m:   make(map[string]challengeEntry),
		ttl: ttl,
	}
	go cs.cleanupLoop()
	return cs
}

func (s *challengeStore) Put(id string, targetAngle int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[id] = challengeEntry{
		targetAngle: targetAngle,
		expiresAt:   time.Now().Add(s.ttl),
	}
}

func (s *challengeStore) Take(id string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[id]
	if !ok {
		return 0, false
	}
	delete(s.m, id)
	if time.Now().After(e.expiresAt) {
		return 0, false
	}
	return e.targetAngle, true
}

func (s *challengeStore) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for k, v := range s.m {
			if now.After(v.expiresAt) {
				delete(s.m, k)
			}
		}
		s.mu.Unlock()
	}
}

func captchaBackgrounds(n int, size int) []image.Image {
	if n <= 0 {
		n = 1
	}
	imgs := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		imgs = append(imgs, noiseGradientImage(size, size))
	}
	return imgs
}

func noiseGradientImage(w, h int) image.Image {
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := float64(x - w/2)
			dy := float64(y - h/2)
			t := math.Sqrt(dx*dx+dy*dy) / float64(w/2)
			if t > 1 {
				t = 1
			}
			base := uint8(200 - int(150*t))
			noise := uint8(rand.Intn(30))
			rgba.Set(x, y, color.RGBA{R: base + noise/3, G: base, B: 255 - base/2, A: 255})
		}
	}
	overlayRect(rgba, 10, 10, w/3, h/12, color.RGBA{R: 255, G: 255, B: 255, A: 32})
	overlayRect(rgba, w/2, h/3, w/3, h/10, color.RGBA{R: 0, G: 0, B: 0, A: 24})
	return rgba
}

func overlayRect(dst *image.RGBA, x, y, w, h int, c color.RGBA) {
	rect := image.Rect(x, y, x+w, y+h)
	draw.Draw(dst, rect, &image.Uniform{C: c}, image.Point{}, draw.Over)
}
