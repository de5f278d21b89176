package session

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tubewaves/internal/media"
	"github.com/llehouerou/tubewaves/internal/notify"
	"github.com/llehouerou/tubewaves/internal/pip"
	"github.com/llehouerou/tubewaves/internal/playback"
	"github.com/llehouerou/tubewaves/internal/player"
	"github.com/llehouerou/tubewaves/internal/queue"
)

var (
	clip  = media.Item{ID: "clip", Title: "Clip", Start: 30 * time.Second, End: 210 * time.Second}
	songA = media.Item{ID: "a", Title: "A", End: 3 * time.Minute}
	songB = media.Item{ID: "b", Title: "B", Start: 5 * time.Second, End: 2 * time.Minute}
	songC = media.Item{ID: "c", Title: "C", End: 4 * time.Minute}
)

type noticeRecorder struct {
	mu    sync.Mutex
	notes []notify.Notification
}

func (r *noticeRecorder) Notify(n notify.Notification) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
	return uint32(len(r.notes)), nil
}

func (r *noticeRecorder) Close(uint32) error { return nil }

func (r *noticeRecorder) bodies() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.notes))
	for i, n := range r.notes {
		out[i] = n.Body
	}
	return out
}

type fixture struct {
	c      *Controller
	facade *player.Facade
	store  *playback.Store
	queue  *queue.Store
	notes  *noticeRecorder

	mu        sync.Mutex
	mocks     []*player.Mock
	modes     []playback.DisplayMode
	launchErr error
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		facade: player.NewFacade(),
		store:  playback.NewStore(),
		queue:  queue.NewStore(),
		notes:  &noticeRecorder{},
	}
	opts = append([]Option{WithNotifier(f.notes)}, opts...)
	f.c = New(Deps{
		Facade: f.facade,
		Store:  f.store,
		Queue:  f.queue,
		Launch: f.launch,
	}, opts...)
	return f
}

func (f *fixture) launch(_ context.Context, mode playback.DisplayMode) (player.Instance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modes = append(f.modes, mode)
	if f.launchErr != nil {
		return nil, f.launchErr
	}
	m := player.NewMock()
	f.mocks = append(f.mocks, m)
	return m, nil
}

func (f *fixture) mock(t *testing.T) *player.Mock {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.mocks, "no instance launched")
	return f.mocks[len(f.mocks)-1]
}

func (f *fixture) launches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.mocks)
}

// play selects item and delivers the instance's ready event.
func (f *fixture) play(t *testing.T, item media.Item) *player.Mock {
	t.Helper()
	f.queue.Select(item)
	m := f.mock(t)
	m.Emit(player.Event{Kind: player.EventReady})
	synctest.Wait()
	require.Equal(t, player.StatusReady, f.facade.Status())
	return m
}

func currentID(q *queue.Store) string {
	cur, ok := q.Current()
	if !ok {
		return ""
	}
	return cur.ID
}

func TestController_SelectResetsBeforeSampling(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		f.store.SetCurrentTime(time.Hour)

		f.queue.Select(clip)

		assert.Equal(t, 180*time.Second, f.store.Duration())
		assert.Equal(t, 30*time.Second, f.store.CurrentTime())
		assert.Equal(t, []media.Item{clip}, f.mock(t).Loads())
		assert.Equal(t, player.StatusLoading, f.facade.Status())

		require.NoError(t, f.c.Close())
	})
}

func TestController_SeekTranslatesWindow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		m := f.play(t, clip)

		f.c.Seek(0.5)

		assert.Equal(t, []time.Duration{90 * time.Second}, m.SeekCalls())
		assert.Equal(t, 120*time.Second, f.store.CurrentTime())

		f.c.SeekAt(210, 210)
		assert.Equal(t, 180*time.Second, m.SeekCalls()[1])
		assert.Equal(t, 210*time.Second, f.store.CurrentTime())

		require.NoError(t, f.c.Close())
	})
}

func TestController_SeekIgnoresBadInput(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		m := f.play(t, clip)

		f.c.Seek(math.NaN())
		f.c.Seek(math.Inf(1))
		f.c.SeekAt(10, 0)
		assert.Empty(t, m.SeekCalls())
		assert.Equal(t, 30*time.Second, f.store.CurrentTime())

		f.c.Seek(-3)
		f.c.Seek(7)
		assert.Equal(t, []time.Duration{0, 180 * time.Second}, m.SeekCalls(), "fractions clamped")

		require.NoError(t, f.c.Close())
	})
}

func TestController_SeekBeforeReadyIsNoop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		f.queue.Select(clip)

		f.c.Seek(0.5)
		f.c.SeekBy(10 * time.Second)

		assert.Empty(t, f.mock(t).SeekCalls())
		assert.Equal(t, 30*time.Second, f.store.CurrentTime())

		require.NoError(t, f.c.Close())
	})
}

func TestController_SeekByClampsToWindow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		m := f.play(t, clip)

		f.c.SeekBy(-10 * time.Second)
		f.c.SeekBy(5 * time.Second)
		f.c.SeekBy(time.Hour)

		assert.Equal(t, []time.Duration{0, 5 * time.Second, 180 * time.Second}, m.SeekCalls())
		assert.Equal(t, 210*time.Second, f.store.CurrentTime())

		require.NoError(t, f.c.Close())
	})
}

func TestController_VolumeImpliesMute(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		m := f.play(t, songA)

		f.c.SetVolume(0)
		assert.True(t, f.store.IsMuted())
		assert.True(t, m.MutedState())

		f.c.SetVolume(40)
		assert.False(t, f.store.IsMuted())
		assert.False(t, m.MutedState())
		assert.Equal(t, 40, f.store.Volume())
		assert.Equal(t, 40, m.Volume())

		f.c.SetVolume(-5)
		assert.Equal(t, 0, f.store.Volume(), "negative clamped")
		assert.True(t, f.store.IsMuted())

		f.c.SetVolume(250)
		assert.Equal(t, 100, f.store.Volume())
		assert.False(t, f.store.IsMuted())

		require.NoError(t, f.c.Close())
	})
}

func TestController_VolumeWithoutInstance(t *testing.T) {
	f := newFixture(t)

	for v := 0; v <= 100; v += 25 {
		f.store.SetIsMuted(true)
		f.c.SetVolume(v)
		assert.Equal(t, v == 0, f.store.IsMuted(), "volume %d", v)
		assert.Equal(t, v, f.store.Volume())
	}
}

func TestController_ToggleMuteRestoresVolume(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		m := f.play(t, songA)

		f.c.SetVolume(60)
		f.c.SetVolume(0)
		require.True(t, f.store.IsMuted())

		f.c.ToggleMute()
		assert.False(t, f.store.IsMuted())
		assert.Equal(t, 60, f.store.Volume())
		assert.Equal(t, 60, m.Volume())

		f.c.ToggleMute()
		assert.True(t, f.store.IsMuted())
		assert.Equal(t, 60, f.store.Volume(), "mute keeps volume")
		assert.True(t, m.MutedState())

		require.NoError(t, f.c.Close())
	})
}

func TestController_TogglePlayWithoutInstance(t *testing.T) {
	f := newFixture(t)
	f.store.SetIsPlaying(false)

	f.c.TogglePlay()

	assert.False(t, f.store.IsPlaying())
	assert.Zero(t, f.launches())
}

func TestController_TogglePlay(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		m := f.play(t, songA)
		require.True(t, f.store.IsPlaying())

		f.c.TogglePlay()
		assert.False(t, f.store.IsPlaying())
		playing, _ := m.Playing()
		assert.False(t, playing)

		f.c.TogglePlay()
		assert.True(t, f.store.IsPlaying())

		require.NoError(t, f.c.Close())
	})
}

func TestController_ReadyAppliesStoredSettings(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		f.store.SetVolume(35)
		f.store.SetIsMuted(true)
		f.store.SetDisplayMode(playback.ModeAudio)

		m := f.play(t, songA)

		assert.Equal(t, 35, m.Volume())
		assert.True(t, m.MutedState())
		assert.False(t, m.VideoEnabled())
		f.mu.Lock()
		assert.Equal(t, []playback.DisplayMode{playback.ModeAudio}, f.modes)
		f.mu.Unlock()

		assert.Equal(t, playback.ModeVideo, f.c.ToggleDisplayMode())
		assert.True(t, m.VideoEnabled())
		assert.Equal(t, playback.ModeVideo, f.store.DisplayMode())

		require.NoError(t, f.c.Close())
	})
}

func TestController_EveryReadyReappliesSettings(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		f.store.SetVolume(35)
		m := f.play(t, songA)
		require.Len(t, m.VolumeSets(), 1)

		f.queue.Select(songB)
		m.Emit(player.Event{Kind: player.EventReady})
		m.Emit(player.Event{Kind: player.EventReady})
		synctest.Wait()

		assert.Equal(t, []int{35, 35, 35}, m.VolumeSets())
		assert.Equal(t, player.StatusReady, f.facade.Status())

		require.NoError(t, f.c.Close())
	})
}

func TestController_VolumePersistsAcrossItems(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		f.play(t, songA)
		f.c.SetVolume(20)

		m := f.play(t, songB)

		assert.Equal(t, 1, f.launches(), "instance reused")
		assert.Equal(t, 20, m.Volume())
		assert.Equal(t, []media.Item{songA, songB}, m.Loads())

		require.NoError(t, f.c.Close())
	})
}

func TestController_SamplingWritesAbsoluteTime(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		m := f.play(t, clip)

		m.SetPosition(10 * time.Second)
		time.Sleep(DefaultPollInterval + time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 40*time.Second, f.store.CurrentTime())

		m.SetPlaying(false)
		m.SetPosition(11 * time.Second)
		time.Sleep(DefaultPollInterval)
		synctest.Wait()
		assert.Equal(t, 41*time.Second, f.store.CurrentTime())
		assert.False(t, f.store.IsPlaying())

		require.NoError(t, f.c.Close())
	})
}

func TestController_PollIntervalOption(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, WithPollInterval(2*time.Second))
		f.c.Start()
		m := f.play(t, songA)
		m.SetPosition(7 * time.Second)

		time.Sleep(time.Second)
		synctest.Wait()
		assert.Zero(t, f.store.CurrentTime(), "no tick yet")

		time.Sleep(time.Second + time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 7*time.Second, f.store.CurrentTime())

		require.NoError(t, f.c.Close())
	})
}

func TestController_NoSamplingWhileLoading(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		m := f.play(t, songA)

		f.queue.Select(songB)
		m.SetPosition(time.Minute)
		time.Sleep(3 * DefaultPollInterval)
		synctest.Wait()

		assert.Equal(t, songB.Start, f.store.CurrentTime(), "old position never written over the new item")

		require.NoError(t, f.c.Close())
	})
}

func TestController_NullItemStopsSampling(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		m := f.play(t, clip)

		f.queue.Clear()
		synctest.Wait()

		assert.Equal(t, player.StatusUnbound, f.facade.Status())
		assert.Equal(t, 1, m.CloseCalls())
		assert.False(t, f.store.IsPlaying())

		before := f.store.CurrentTime()
		m.SetPosition(99 * time.Second)
		time.Sleep(3 * DefaultPollInterval)
		synctest.Wait()
		assert.Equal(t, before, f.store.CurrentTime())

		f.queue.Select(songA)
		assert.Equal(t, 2, f.launches(), "new instance after release")

		require.NoError(t, f.c.Close())
	})
}

func TestController_EndedAdvancesOnce(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		f.queue.Enqueue(songB)
		f.queue.Enqueue(songC)
		m := f.play(t, songA)

		m.Emit(player.Event{Kind: player.EventEnded})
		m.Emit(player.Event{Kind: player.EventEnded})
		synctest.Wait()

		assert.Equal(t, "b", currentID(f.queue))
		assert.Equal(t, []media.Item{songC}, f.queue.Queue())
		assert.Equal(t, []media.Item{songA, songB}, m.Loads())
		assert.Equal(t, songB.Start, f.store.CurrentTime())

		require.NoError(t, f.c.Close())
	})
}

func TestController_DuplicateEndedSameSession(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		m := f.play(t, songA)

		m.Emit(player.Event{Kind: player.EventEnded})
		synctest.Wait()
		assert.Equal(t, "a", currentID(f.queue), "empty queue keeps current")
		assert.False(t, f.store.IsPlaying())

		f.queue.Enqueue(songB)
		m.Emit(player.Event{Kind: player.EventEnded})
		synctest.Wait()

		assert.Equal(t, "a", currentID(f.queue), "same session advances at most once")
		assert.Len(t, f.queue.Queue(), 1)

		require.NoError(t, f.c.Close())
	})
}

func TestController_StateChangedUpdatesStore(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		m := f.play(t, songA)

		m.Emit(player.Event{Kind: player.EventStateChanged, Playing: false})
		synctest.Wait()
		assert.False(t, f.store.IsPlaying())

		m.Emit(player.Event{Kind: player.EventStateChanged, Playing: true})
		synctest.Wait()
		assert.True(t, f.store.IsPlaying())

		require.NoError(t, f.c.Close())
	})
}

func TestController_NextAndPrevious(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		f.queue.SetLibrary([]media.Item{songA, songB, songC})

		assert.False(t, f.c.Next(), "empty queue")

		f.play(t, songC)
		assert.True(t, f.c.Previous())
		assert.Equal(t, "b", currentID(f.queue))
		assert.True(t, f.c.Previous())
		assert.False(t, f.c.Previous(), "first library item")
		assert.Equal(t, "a", currentID(f.queue))

		f.queue.Enqueue(clip)
		assert.True(t, f.c.Next())
		assert.Equal(t, "clip", currentID(f.queue))
		assert.Equal(t, clip, f.mock(t).Loads()[len(f.mock(t).Loads())-1])

		require.NoError(t, f.c.Close())
	})
}

func TestController_StartLoadsExistingItem(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.queue.Select(clip)

		f.c.Start()

		assert.Equal(t, []media.Item{clip}, f.mock(t).Loads())
		assert.Equal(t, 180*time.Second, f.store.Duration())

		require.NoError(t, f.c.Close())
	})
}

func TestController_LaunchFailureIsReported(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.launchErr = errors.New("mpv not found")
		f.c.Start()

		f.queue.Select(songA)

		assert.Equal(t, player.StatusUnbound, f.facade.Status())
		require.Len(t, f.notes.bodies(), 1)
		assert.Contains(t, f.notes.bodies()[0], "mpv not found")
		assert.Equal(t, songA.Length(), f.store.Duration(), "store still reset")

		require.NoError(t, f.c.Close())
	})
}

func TestController_InstanceClosedStopsPlayback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		m := f.play(t, songA)

		m.Emit(player.Event{Kind: player.EventClosed})
		synctest.Wait()

		assert.Equal(t, player.StatusUnbound, f.facade.Status())
		assert.False(t, f.store.IsPlaying())

		require.NoError(t, f.c.Close())
	})
}

func TestController_ReselectRelaunchesClosedInstance(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		first := f.play(t, songA)

		first.Emit(player.Event{Kind: player.EventClosed})
		synctest.Wait()
		require.Equal(t, player.StatusUnbound, f.facade.Status())

		f.queue.Select(songA)

		assert.Equal(t, 2, f.launches())
		assert.Equal(t, []media.Item{songA}, f.mock(t).Loads())
		assert.Equal(t, player.StatusLoading, f.facade.Status())

		require.NoError(t, f.c.Close())
	})
}

func TestController_ReselectAfterLaunchFailure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.launchErr = errors.New("mpv not found")
		f.c.Start()
		f.queue.Select(songA)
		require.Equal(t, player.StatusUnbound, f.facade.Status())

		f.mu.Lock()
		f.launchErr = nil
		f.mu.Unlock()
		f.queue.Select(songA)

		assert.Equal(t, 1, f.launches())
		assert.Equal(t, []media.Item{songA}, f.mock(t).Loads())

		require.NoError(t, f.c.Close())
	})
}

func TestController_ReselectWhileReadyKeepsPlaying(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		m := f.play(t, songA)

		f.queue.Select(songA)

		assert.Equal(t, 1, f.launches())
		assert.Equal(t, []media.Item{songA}, m.Loads())
		assert.Equal(t, player.StatusReady, f.facade.Status())

		require.NoError(t, f.c.Close())
	})
}

// holdFirst registers an observer ahead of the controller that blocks the
// first change matching hold until release is closed.
func holdFirst(q *queue.Store, hold func(cur *media.Item) bool, release <-chan struct{}) {
	var once sync.Once
	q.OnCurrentChange(func(_, cur *media.Item) {
		if hold(cur) {
			once.Do(func() { <-release })
		}
	})
}

func TestController_OutOfOrderSelectKeepsNewest(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		release := make(chan struct{})
		holdFirst(f.queue, func(cur *media.Item) bool { return cur != nil && cur.ID == songA.ID }, release)
		f.c.Start()

		done := make(chan struct{})
		go func() {
			defer close(done)
			f.queue.Select(songA)
		}()
		synctest.Wait()

		f.queue.Select(songB)
		close(release)
		<-done

		assert.Equal(t, "b", currentID(f.queue))
		assert.Equal(t, []media.Item{songB}, f.mock(t).Loads())
		assert.Equal(t, songB.Length(), f.store.Duration())
		assert.Equal(t, songB.Start, f.store.CurrentTime())

		require.NoError(t, f.c.Close())
	})
}

func TestController_OutOfOrderClearKeepsNewest(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		release := make(chan struct{})
		holdFirst(f.queue, func(cur *media.Item) bool { return cur == nil }, release)
		f.c.Start()
		m := f.play(t, songA)

		done := make(chan struct{})
		go func() {
			defer close(done)
			f.queue.Clear()
		}()
		synctest.Wait()

		f.queue.Select(songB)
		close(release)
		<-done

		assert.Equal(t, "b", currentID(f.queue))
		assert.Equal(t, player.StatusLoading, f.facade.Status())
		assert.Zero(t, m.CloseCalls(), "instance kept for the newer item")
		assert.Equal(t, []media.Item{songA, songB}, m.Loads())

		require.NoError(t, f.c.Close())
	})
}

func TestController_Close(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.c.Start()
		m := f.play(t, songA)

		require.NoError(t, f.c.Close())
		require.NoError(t, f.c.Close())
		synctest.Wait()

		assert.Equal(t, player.StatusUnbound, f.facade.Status())
		assert.Equal(t, 1, m.CloseCalls())

		f.queue.Select(songB)
		assert.Equal(t, 1, f.launches(), "closed controller ignores item changes")
	})
}

type fakeSession struct {
	done chan struct{}
	once sync.Once
}

func (s *fakeSession) Done() <-chan struct{} { return s.done }

func (s *fakeSession) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

type fakeSurface struct {
	mu     sync.Mutex
	opened []player.Stream
}

func (f *fakeSurface) Open(_ context.Context, stream player.Stream) (pip.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, stream)
	return &fakeSession{done: make(chan struct{})}, nil
}

func TestController_PiP(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		surface := &fakeSurface{}
		f := newFixture(t, WithPiP(pip.NewManager(surface)))
		f.c.Start()

		require.NoError(t, f.c.ExitPiP(), "exit when inactive is a no-op")

		m := f.play(t, clip)
		active, err := f.c.TogglePiP(context.Background())
		assert.ErrorIs(t, err, pip.ErrNoStream)
		assert.False(t, active)
		require.Len(t, f.notes.bodies(), 1)
		assert.True(t, f.store.IsPlaying(), "transport untouched by failure")

		m.SetStream(player.Stream{URL: clip.URL(), Position: 75 * time.Second})
		active, err = f.c.TogglePiP(context.Background())
		require.NoError(t, err)
		assert.True(t, active)
		assert.True(t, f.c.PiPActive())
		assert.Equal(t, 75*time.Second, surface.opened[0].Position)

		require.NoError(t, f.c.Close())
		synctest.Wait()
		assert.False(t, f.c.PiPActive(), "close exits picture-in-picture")
	})
}

func TestController_PiPUnavailable(t *testing.T) {
	f := newFixture(t)

	active, err := f.c.TogglePiP(context.Background())

	assert.ErrorIs(t, err, pip.ErrUnsupported)
	assert.False(t, active)
	assert.Len(t, f.notes.bodies(), 1)
	assert.NoError(t, f.c.ExitPiP())
	assert.False(t, f.c.PiPActive())
}
