package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Credential is one opaque API key for the video metadata service, plus its
// exhaustion state. Credentials are owned by the pool and never persisted
// from here; the pool loads them once from the credential store.
type Credential struct {
	Key       string
	Exhausted bool
}

// CredentialSource loads the raw key list from wherever credentials live.
type CredentialSource interface {
	ListKeys(ctx context.Context) ([]string, error)
}

// KeyPool rotates interchangeable API credentials linearly. Every Next call
// advances the cursor; a credential handed out is considered spent, so a
// caller hitting a quota error simply calls Next again for a fresh one.
// The cursor is shared across concurrent requests and guarded by a mutex.
type KeyPool struct {
	source CredentialSource
	log    *logrus.Entry

	mu     sync.Mutex
	keys   []Credential
	cursor int
}

func NewKeyPool(source CredentialSource) *KeyPool {
	return &KeyPool{
		source: source,
		log:    logrus.WithField("component", "keypool"),
	}
}

// Load replaces the pool contents from the credential source and resets the
// cursor. It is safe to call again as an explicit reload.
func (p *KeyPool) Load(ctx context.Context) error {
	rawKeys, err := p.source.ListKeys(ctx)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	if len(rawKeys) == 0 {
		return ErrPoolEmpty
	}

	keys := make([]Credential, len(rawKeys))
	for i, k := range rawKeys {
		keys[i] = Credential{Key: k}
	}

	p.mu.Lock()
	p.keys = keys
	p.cursor = 0
	p.mu.Unlock()

	p.log.Infof("loaded %d API credentials", len(keys))
	return nil
}

// Next hands out the next untried credential in insertion order. The
// previously issued credential is marked exhausted: callers only come back
// here after reporting it spent.
func (p *KeyPool) Next() (Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.keys) == 0 {
		return Credential{}, ErrPoolEmpty
	}
	if p.cursor > 0 {
		p.keys[p.cursor-1].Exhausted = true
	}
	if p.cursor >= len(p.keys) {
		return Credential{}, ErrPoolExhausted
	}

	cred := p.keys[p.cursor]
	p.cursor++
	return cred, nil
}

// Size reports how many credentials are loaded.
func (p *KeyPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}

// Remaining reports how many credentials have not yet been handed out.
func (p *KeyPool) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cursor > len(p.keys) {
		return 0
	}
	return len(p.keys) - p.cursor
}
