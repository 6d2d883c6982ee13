package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/zcloak-network/go-credential-sdk/credential/common/model"
)

// StaticProvider serves pre-fetched DID documents and schemas from memory.
// It backs offline verification and tests.
type StaticProvider struct {
	mu      sync.RWMutex
	docs    map[string]*model.DIDDocument
	schemas map[string]*model.SchemaDocument
}

// NewStaticProvider creates an empty static provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		docs:    make(map[string]*model.DIDDocument),
		schemas: make(map[string]*model.SchemaDocument),
	}
}

// AddDocument registers a DID document under its own id.
func (p *StaticProvider) AddDocument(doc *model.DIDDocument) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.docs[doc.ID] = doc
}

// AddSchema registers a schema document under its own id.
func (p *StaticProvider) AddSchema(doc *model.SchemaDocument) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.schemas[doc.ID] = doc
}

func (p *StaticProvider) Resolve(ctx context.Context, did string) (*model.DIDDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	doc, ok := p.docs[did]
	if !ok {
		return nil, fmt.Errorf("%w: DID %q", ErrNotFound, did)
	}
	return doc, nil
}

func (p *StaticProvider) ResolveSchema(ctx context.Context, id string) (*model.SchemaDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	doc, ok := p.schemas[id]
	if !ok {
		return nil, fmt.Errorf("%w: ctype %q", ErrNotFound, id)
	}
	return doc, nil
}
