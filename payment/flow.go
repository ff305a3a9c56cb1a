package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// State of a single payment attempt.
type State int

const (
	StateIdle State = iota
	StateAwaitingMobileConfirmation
	StateAwaitingDesktopConfirmation
	StateConfirmed
	StateSubmitted
	StateAbandoned
)

func (s State) String() string {
	switch s {
	case StateAwaitingMobileConfirmation:
		return "awaiting_mobile_confirmation"
	case StateAwaitingDesktopConfirmation:
		return "awaiting_desktop_confirmation"
	case StateConfirmed:
		return "confirmed"
	case StateSubmitted:
		return "submitted"
	case StateAbandoned:
		return "abandoned"
	default:
		return "idle"
	}
}

// PlatformHint decides the payment path once, up front. It is passed in
// explicitly by the caller; the flow never sniffs user agents.
type PlatformHint int

const (
	PlatformMobile PlatformHint = iota
	PlatformDesktop
)

// Profile is everything the server needs once payment is confirmed.
type Profile struct {
	Name         string
	Email        string
	Phone        string
	SenderNumber string
	Role         string
	Skills       string
	Projects     string
	Achievements string
	ProofName    string
	Proof        []byte
}

// Confirmer asks whether the payment went through. The boolean answer is
// the self-attestation gate: false means the profile is never sent.
type Confirmer interface {
	ConfirmPayment(ctx context.Context) (bool, error)
}

// DeepLinkLauncher hands the upi:// URI to the payment app on mobile.
type DeepLinkLauncher interface {
	Launch(uri string) error
}

// QRPresenter shows the QR on desktop and returns when the user signals
// they have completed the transfer on their phone.
type QRPresenter interface {
	Present(ctx context.Context, png []byte) error
}

// Submitter releases the profile to the server after confirmation.
type Submitter interface {
	SendDetails(ctx context.Context, p Profile) error
}

// Mobile apps need a moment to come to the foreground and settle before
// the confirmation prompt makes sense.
const deepLinkSettleDelay = 6 * time.Second

var (
	ErrBadSenderNumber = errors.New("sender number must be at least 10 characters")
	ErrNotConfirmed    = errors.New("payment not confirmed yet")
	ErrFlowFinished    = errors.New("payment flow already finished")
)

// Flow runs one payment attempt. It is not safe for concurrent use; each
// attempt gets its own Flow.
type Flow struct {
	payeeHandle string
	payeeName   string

	launcher  DeepLinkLauncher
	presenter QRPresenter
	confirmer Confirmer
	submitter Submitter

	sleep func(context.Context, time.Duration) error

	state State
	uri   string
}

func NewFlow(payeeHandle, payeeName string, launcher DeepLinkLauncher, presenter QRPresenter, confirmer Confirmer, submitter Submitter) *Flow {
	return &Flow{
		payeeHandle: payeeHandle,
		payeeName:   payeeName,
		launcher:    launcher,
		presenter:   presenter,
		confirmer:   confirmer,
		submitter:   submitter,
		sleep:       sleepCtx,
		state:       StateIdle,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (f *Flow) State() State { return f.state }

// URI returns the deep link built for this attempt.
func (f *Flow) URI() string { return f.uri }

// Start begins the attempt. On mobile it launches the deep link, waits for
// the payment app to settle, asks for confirmation and, when affirmed,
// submits the profile. On desktop it presents the QR and stops at
// AwaitingDesktopConfirmation; ConfirmCompleted finishes the attempt.
func (f *Flow) Start(ctx context.Context, platform PlatformHint, profile Profile) error {
	if f.state != StateIdle {
		return ErrFlowFinished
	}
	if len(strings.TrimSpace(profile.SenderNumber)) < 10 {
		return ErrBadSenderNumber
	}

	f.uri = BuildUPIURI(f.payeeHandle, f.payeeName, profile.SenderNumber)

	if platform == PlatformDesktop {
		png, err := QRPNG(f.uri)
		if err != nil {
			return err
		}
		if err := f.presenter.Present(ctx, png); err != nil {
			return fmt.Errorf("present qr: %w", err)
		}
		f.state = StateAwaitingDesktopConfirmation
		return nil
	}

	if err := f.launcher.Launch(f.uri); err != nil {
		return fmt.Errorf("launch upi app: %w", err)
	}
	f.state = StateAwaitingMobileConfirmation

	if err := f.sleep(ctx, deepLinkSettleDelay); err != nil {
		f.state = StateAbandoned
		return err
	}

	return f.confirmAndSubmit(ctx, profile)
}

// ConfirmCompleted is the desktop manual-completion trigger: the user says
// they finished the transfer, the confirmer double-checks, and an
// affirmative answer releases the profile.
func (f *Flow) ConfirmCompleted(ctx context.Context, profile Profile) error {
	if f.state != StateAwaitingDesktopConfirmation {
		return ErrNotConfirmed
	}
	return f.confirmAndSubmit(ctx, profile)
}

func (f *Flow) confirmAndSubmit(ctx context.Context, profile Profile) error {
	ok, err := f.confirmer.ConfirmPayment(ctx)
	if err != nil {
		f.state = StateAbandoned
		return fmt.Errorf("confirm payment: %w", err)
	}
	if !ok {
		f.state = StateAbandoned
		return nil
	}
	f.state = StateConfirmed

	if err := f.submitter.SendDetails(ctx, profile); err != nil {
		return fmt.Errorf("send details: %w", err)
	}
	f.state = StateSubmitted
	return nil
}
