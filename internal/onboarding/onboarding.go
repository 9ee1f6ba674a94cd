// Package onboarding runs the three-step vendor verification wizard: vendor type, business
// details, then verification documents.
package onboarding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/marketplace-backend/internal/validation"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/kvstore"
)

// Store keys in the workspace namespace.
const (
	ProgressKey  = "vendorOnboarding"
	OnboardedKey = "vendorOnboarded"
)

// MinDocuments is how many verification documents completion requires.
const MinDocuments = 2

type Step int

const (
	StepVendorType Step = iota + 1
	StepBusinessInfo
	StepDocuments
)

func (s Step) String() string {
	switch s {
	case StepVendorType:
		return "vendor_type"
	case StepBusinessInfo:
		return "business_info"
	case StepDocuments:
		return "documents"
	default:
		return fmt.Sprintf("step_%d", int(s))
	}
}

// VendorTypeInput is step one.
type VendorTypeInput struct {
	VendorType string `json:"vendor_type" validate:"required,vendor_type"`
}

// BusinessInfo is step two. Name, address and phone are required.
type BusinessInfo struct {
	BusinessName    string `json:"business_name" validate:"notblank"`
	BusinessAddress string `json:"business_address" validate:"notblank"`
	BusinessPhone   string `json:"business_phone" validate:"notblank"`
	BusinessWebsite string `json:"business_website,omitempty" validate:"omitempty,url"`
	BusinessLogo    string `json:"business_logo,omitempty"`
	Description     string `json:"description,omitempty"`
}

// DocumentsInput is step three.
type DocumentsInput struct {
	Documents []string `json:"documents" validate:"unique"`
}

// Progress is the persisted wizard state.
type Progress struct {
	Step        Step             `json:"step"`
	VendorType  enums.VendorType `json:"vendor_type,omitempty"`
	Business    *BusinessInfo    `json:"business,omitempty"`
	Documents   []string         `json:"documents"`
	Completed   bool             `json:"completed"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

func initialProgress() Progress {
	return Progress{Step: StepVendorType, Documents: []string{}}
}

func ValidateBusinessInfo(in BusinessInfo) validation.Result {
	return validation.Struct(in)
}

// ValidateDocuments requires at least MinDocuments distinct names from the fixed document list.
func ValidateDocuments(in DocumentsInput) validation.Result {
	res := validation.Struct(in)
	for i, doc := range in.Documents {
		if !enums.IsVerificationDocument(doc) {
			res.Add(fmt.Sprintf("documents[%d]", i), "unknown document type")
		}
	}
	if len(in.Documents) < MinDocuments && !res.Has("documents") {
		res.Add("documents", fmt.Sprintf("at least %d documents are required", MinDocuments))
	}
	return res
}

// Wizard persists onboarding progress for one workspace.
type Wizard struct {
	store *kvstore.Store
	now   func() time.Time
	mu    sync.Mutex
}

func NewWizard(store *kvstore.Store) *Wizard {
	return &Wizard{store: store, now: time.Now}
}

// State returns the current progress.
func (w *Wizard) State(ctx context.Context) (Progress, error) {
	p, err := kvstore.Get(ctx, w.store, ProgressKey, initialProgress())
	if err != nil {
		return Progress{}, err
	}
	if p.Step < StepVendorType || p.Step > StepDocuments {
		p.Step = StepVendorType
	}
	if p.Documents == nil {
		p.Documents = []string{}
	}
	return p, nil
}

// Onboarded reports whether the vendor finished the wizard.
func (w *Wizard) Onboarded(ctx context.Context) (bool, error) {
	return kvstore.Get(ctx, w.store, OnboardedKey, false)
}

// SelectVendorType records the vendor type and moves to business details.
func (w *Wizard) SelectVendorType(ctx context.Context, in VendorTypeInput) (Progress, error) {
	if err := validation.Struct(in).Err(); err != nil {
		return Progress{}, err
	}
	return w.advance(ctx, StepVendorType, func(p *Progress) {
		p.VendorType = enums.VendorType(in.VendorType)
		p.Step = StepBusinessInfo
	})
}

// SubmitBusinessInfo records business details and moves to documents.
func (w *Wizard) SubmitBusinessInfo(ctx context.Context, in BusinessInfo) (Progress, error) {
	if err := ValidateBusinessInfo(in).Err(); err != nil {
		return Progress{}, err
	}
	return w.advance(ctx, StepBusinessInfo, func(p *Progress) {
		p.Business = &in
		p.Step = StepDocuments
	})
}

// SubmitDocuments replaces the uploaded document list.
func (w *Wizard) SubmitDocuments(ctx context.Context, in DocumentsInput) (Progress, error) {
	if err := ValidateDocuments(in).Err(); err != nil {
		return Progress{}, err
	}
	return w.advance(ctx, StepDocuments, func(p *Progress) {
		p.Documents = append([]string(nil), in.Documents...)
	})
}

// Back moves one step back, keeping what was entered.
func (w *Wizard) Back(ctx context.Context) (Progress, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.editable(ctx)
	if err != nil {
		return Progress{}, err
	}
	if p.Step == StepVendorType {
		return Progress{}, stepConflict(p.Step, "already on the first step")
	}
	p.Step--
	return p, w.store.Set(ctx, ProgressKey, p)
}

// Complete finishes onboarding once the documents step holds enough documents.
func (w *Wizard) Complete(ctx context.Context) (Progress, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.editable(ctx)
	if err != nil {
		return Progress{}, err
	}
	if p.Step != StepDocuments {
		return Progress{}, stepConflict(p.Step, "documents step not reached")
	}
	if err := ValidateDocuments(DocumentsInput{Documents: p.Documents}).Err(); err != nil {
		return Progress{}, err
	}
	now := w.now().UTC()
	p.Completed = true
	p.CompletedAt = &now
	if err := w.store.Set(ctx, ProgressKey, p); err != nil {
		return Progress{}, err
	}
	if err := w.store.Set(ctx, OnboardedKey, true); err != nil {
		return Progress{}, err
	}
	return p, nil
}

// Reset discards progress and the onboarded flag.
func (w *Wizard) Reset(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.store.Delete(ctx, ProgressKey); err != nil {
		return err
	}
	return w.store.Delete(ctx, OnboardedKey)
}

func (w *Wizard) advance(ctx context.Context, want Step, apply func(*Progress)) (Progress, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.editable(ctx)
	if err != nil {
		return Progress{}, err
	}
	if p.Step != want {
		return Progress{}, stepConflict(p.Step, fmt.Sprintf("expected step %s", want))
	}
	apply(&p)
	if err := w.store.Set(ctx, ProgressKey, p); err != nil {
		return Progress{}, err
	}
	return p, nil
}

func (w *Wizard) editable(ctx context.Context) (Progress, error) {
	p, err := w.State(ctx)
	if err != nil {
		return Progress{}, err
	}
	if p.Completed {
		return Progress{}, pkgerrors.New(pkgerrors.CodeStateConflict, "onboarding already completed")
	}
	return p, nil
}

func stepConflict(step Step, msg string) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, msg).
		WithDetails(map[string]string{"step": step.String()})
}
