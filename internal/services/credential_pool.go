package services

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// DefaultCooldown is how long a quota-limited key stays out of rotation.
const DefaultCooldown = time.Hour

var ErrPoolExhausted = errors.New("credential pool exhausted: all credentials are cooling down")

type CredentialState int

const (
	CredentialActive CredentialState = iota
	CredentialCooling
)

func (s CredentialState) String() string {
	if s == CredentialCooling {
		return "cooling"
	}
	return "active"
}

// ErrorClass tags a generation failure as retryable on another key or not.
type ErrorClass int

const (
	ErrorFatal ErrorClass = iota
	ErrorRateLimited
)

var rateLimitSignatures = []string{"429", "quota", "rate limit"}

// ClassifyError reports ErrorRateLimited when the error text carries one of
// the known quota signatures.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorFatal
	}

	msg := strings.ToLower(err.Error())
	for _, signature := range rateLimitSignatures {
		if strings.Contains(msg, signature) {
			return ErrorRateLimited
		}
	}
	return ErrorFatal
}

// Credential is a snapshot of one pooled key handed out by AcquireNext.
type Credential struct {
	Value         string
	State         CredentialState
	CooldownUntil time.Time

	index int
}

// String masks the secret so credentials can be logged.
func (c Credential) String() string {
	if len(c.Value) <= 4 {
		return "****"
	}
	return "****" + c.Value[len(c.Value)-4:]
}

type CredentialPool interface {
	AcquireNext() (Credential, error)
	MarkFailed(cred Credential, err error) ErrorClass
	ReclaimExpired()
	Size() int
	ActiveCount() int
}

type credentialPool struct {
	mu          sync.Mutex
	credentials []Credential
	cursor      int
	cooldown    time.Duration
	now         func() time.Time
}

func NewCredentialPool(keys []string, cooldown time.Duration) CredentialPool {
	return newCredentialPool(keys, cooldown, time.Now)
}

func newCredentialPool(keys []string, cooldown time.Duration, now func() time.Time) *credentialPool {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}

	credentials := make([]Credential, 0, len(keys))
	for _, key := range keys {
		credentials = append(credentials, Credential{
			Value: key,
			State: CredentialActive,
			index: len(credentials),
		})
	}

	return &credentialPool{
		credentials: credentials,
		cooldown:    cooldown,
		now:         now,
	}
}

// AcquireNext returns the next active credential in round-robin order.
// Expired cooldowns are reclaimed first.
func (p *credentialPool) AcquireNext() (Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.reclaimExpiredLocked()

	n := len(p.credentials)
	for i := 0; i < n; i++ {
		idx := (p.cursor + i) % n
		if p.credentials[idx].State == CredentialActive {
			p.cursor = (idx + 1) % n
			return p.credentials[idx], nil
		}
	}

	return Credential{}, ErrPoolExhausted
}

// MarkFailed puts the credential into cooldown when err is a quota error.
// Any other error leaves the pool untouched and is reported as fatal.
func (p *credentialPool) MarkFailed(cred Credential, err error) ErrorClass {
	class := ClassifyError(err)
	if class != ErrorRateLimited {
		return class
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if cred.index < 0 || cred.index >= len(p.credentials) {
		return class
	}

	stored := &p.credentials[cred.index]
	stored.State = CredentialCooling
	stored.CooldownUntil = p.now().Add(p.cooldown)

	return class
}

func (p *credentialPool) ReclaimExpired() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.reclaimExpiredLocked()
}

func (p *credentialPool) reclaimExpiredLocked() {
	now := p.now()
	for i := range p.credentials {
		cred := &p.credentials[i]
		if cred.State == CredentialCooling && !now.Before(cred.CooldownUntil) {
			cred.State = CredentialActive
			cred.CooldownUntil = time.Time{}
		}
	}
}

func (p *credentialPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.credentials)
}

func (p *credentialPool) ActiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	count := 0
	for _, cred := range p.credentials {
		if cred.State == CredentialActive {
			count++
		}
	}
	return count
}
