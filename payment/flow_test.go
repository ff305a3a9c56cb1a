package payment

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLauncher struct {
	uri string
}

func (f *fakeLauncher) Launch(uri string) error {
	f.uri = uri
	return nil
}

type fakePresenter struct {
	png []byte
}

func (f *fakePresenter) Present(ctx context.Context, data []byte) error {
	f.png = data
	return nil
}

type fakeConfirmer struct {
	answer bool
	err    error
	asked  int
}

func (f *fakeConfirmer) ConfirmPayment(ctx context.Context) (bool, error) {
	f.asked++
	return f.answer, f.err
}

type fakeSubmitter struct {
	sent []Profile
}

func (f *fakeSubmitter) SendDetails(ctx context.Context, p Profile) error {
	f.sent = append(f.sent, p)
	return nil
}

func instantSleep(ctx context.Context, d time.Duration) error { return nil }

func testProfile() Profile {
	return Profile{
		Name:         "Asha",
		Email:        "asha@example.com",
		Phone:        "9876543210",
		SenderNumber: "9876543210",
		Role:         "Frontend Engineer",
	}
}

func newTestFlow(confirmer *fakeConfirmer) (*Flow, *fakeLauncher, *fakePresenter, *fakeSubmitter) {
	launcher := &fakeLauncher{}
	presenter := &fakePresenter{}
	submitter := &fakeSubmitter{}
	f := NewFlow("8010407897@yapl", "AI Resume Builder", launcher, presenter, confirmer, submitter)
	f.sleep = instantSleep
	return f, launcher, presenter, submitter
}

func TestBuildUPIURI(t *testing.T) {
	uri := BuildUPIURI("8010407897@yapl", "AI Resume Builder", "9876543210")

	assert.True(t, strings.HasPrefix(uri, "upi://pay?"))

	parsed, err := url.Parse(uri)
	require.NoError(t, err)
	q := parsed.Query()
	assert.Equal(t, "8010407897@yapl", q.Get("pa"))
	assert.Equal(t, "AI Resume Builder", q.Get("pn"))
	assert.Equal(t, "199", q.Get("am"))
	assert.Equal(t, "INR", q.Get("cu"))
	assert.Equal(t, "Resume Creation Payment (9876543210)", q.Get("tn"))
}

func TestBuildUPIURI_EscapesReservedCharacters(t *testing.T) {
	uri := BuildUPIURI("pay&ee@bank", "Name & Co", "12345 67890")

	assert.NotContains(t, uri, "pay&ee")
	parsed, err := url.Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "pay&ee@bank", parsed.Query().Get("pa"))
	assert.Equal(t, "Name & Co", parsed.Query().Get("pn"))
}

func TestQRPNG_RendersDecodablePNG(t *testing.T) {
	data, err := QRPNG(BuildUPIURI("8010407897@yapl", "AI Resume Builder", "9876543210"))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}

func TestFlow_MobileAffirmative(t *testing.T) {
	confirmer := &fakeConfirmer{answer: true}
	f, launcher, _, submitter := newTestFlow(confirmer)

	err := f.Start(context.Background(), PlatformMobile, testProfile())

	require.NoError(t, err)
	assert.Equal(t, StateSubmitted, f.State())
	assert.Equal(t, f.URI(), launcher.uri)
	assert.Equal(t, 1, confirmer.asked)
	require.Len(t, submitter.sent, 1)
	assert.Equal(t, "Asha", submitter.sent[0].Name)
}

func TestFlow_MobileDeclineNeverSubmits(t *testing.T) {
	confirmer := &fakeConfirmer{answer: false}
	f, _, _, submitter := newTestFlow(confirmer)

	err := f.Start(context.Background(), PlatformMobile, testProfile())

	require.NoError(t, err)
	assert.Equal(t, StateAbandoned, f.State())
	assert.Empty(t, submitter.sent)
}

func TestFlow_ConfirmerErrorAbandons(t *testing.T) {
	confirmer := &fakeConfirmer{err: errors.New("dialog dismissed")}
	f, _, _, submitter := newTestFlow(confirmer)

	err := f.Start(context.Background(), PlatformMobile, testProfile())

	assert.Error(t, err)
	assert.Equal(t, StateAbandoned, f.State())
	assert.Empty(t, submitter.sent)
}

func TestFlow_DesktopWaitsForManualCompletion(t *testing.T) {
	confirmer := &fakeConfirmer{answer: true}
	f, launcher, presenter, submitter := newTestFlow(confirmer)

	require.NoError(t, f.Start(context.Background(), PlatformDesktop, testProfile()))

	assert.Equal(t, StateAwaitingDesktopConfirmation, f.State())
	assert.Empty(t, launcher.uri, "desktop path must not launch a deep link")
	assert.NotEmpty(t, presenter.png)
	assert.Empty(t, submitter.sent)

	require.NoError(t, f.ConfirmCompleted(context.Background(), testProfile()))
	assert.Equal(t, StateSubmitted, f.State())
	assert.Len(t, submitter.sent, 1)
}

func TestFlow_ConfirmCompletedOnlyFromDesktopWait(t *testing.T) {
	f, _, _, _ := newTestFlow(&fakeConfirmer{answer: true})

	err := f.ConfirmCompleted(context.Background(), testProfile())

	assert.ErrorIs(t, err, ErrNotConfirmed)
}

func TestFlow_ShortSenderNumberRejected(t *testing.T) {
	f, launcher, _, submitter := newTestFlow(&fakeConfirmer{answer: true})

	p := testProfile()
	p.SenderNumber = "12345"
	err := f.Start(context.Background(), PlatformMobile, p)

	assert.ErrorIs(t, err, ErrBadSenderNumber)
	assert.Equal(t, StateIdle, f.State())
	assert.Empty(t, launcher.uri)
	assert.Empty(t, submitter.sent)
}

func TestFlow_SingleAttempt(t *testing.T) {
	f, _, _, _ := newTestFlow(&fakeConfirmer{answer: true})

	require.NoError(t, f.Start(context.Background(), PlatformMobile, testProfile()))

	err := f.Start(context.Background(), PlatformMobile, testProfile())
	assert.ErrorIs(t, err, ErrFlowFinished)
}

func TestFlow_CancelledDuringSettleDelay(t *testing.T) {
	f, _, _, submitter := newTestFlow(&fakeConfirmer{answer: true})
	f.sleep = sleepCtx

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.Start(ctx, PlatformMobile, testProfile())

	assert.Error(t, err)
	assert.Equal(t, StateAbandoned, f.State())
	assert.Empty(t, submitter.sent)
}
