package themes

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/codr1/wfxconsole/internal/storage"
)

func testRegistry(t *testing.T, ids ...string) *Registry {
	t.Helper()
	catalogue, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if len(ids) == 0 {
		return catalogue
	}
	selected := make([]Theme, 0, len(ids))
	for _, id := range ids {
		theme, ok := catalogue.FindByID(id)
		if !ok {
			t.Fatalf("catalogue missing %q", id)
		}
		selected = append(selected, theme)
	}
	registry, err := NewRegistry(selected...)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return registry
}

func newStore() *storage.Store {
	return storage.NewMemoryStore(storage.Options{KeyPrefix: "wfx:", SessionTTL: time.Hour})
}

func persistedID(t *testing.T, svc *storage.Service) string {
	t.Helper()
	id, _, err := storage.Get[string](context.Background(), svc, PreferenceKey, storage.Durable)
	if err != nil {
		t.Fatalf("read preference: %v", err)
	}
	return id
}

func TestLoadCatalog(t *testing.T) {
	registry := testRegistry(t)

	want := []string{"elementary", "ocean", "sunset", "forest", "royal", "midnight", "coral"}
	var got []string
	for theme := range registry.All() {
		got = append(got, theme.ID)
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("All() ids = %v, want %v", got, want)
	}

	if registry.Default().ID != "elementary" {
		t.Fatalf("Default() = %q, want elementary", registry.Default().ID)
	}

	seen := make(map[string]bool)
	for _, theme := range registry.List() {
		if seen[theme.ID] {
			t.Fatalf("duplicate id %q", theme.ID)
		}
		seen[theme.ID] = true
		if theme.IsDark != (theme.ID == "midnight") {
			t.Fatalf("theme %q IsDark = %v", theme.ID, theme.IsDark)
		}
	}
}

func TestParseCatalog_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "empty",
			body:    "",
			wantErr: "empty",
		},
		{
			name:    "no_themes",
			body:    "themes: []\n",
			wantErr: "empty",
		},
		{
			name: "duplicate_ids",
			body: `themes:
  - {id: ocean, name: Ocean, icon: pi pi-sun, colors: {primary: "#667eea", gradient: "linear-gradient(135deg, #667eea 0%, #764ba2 100%)"}}
  - {id: ocean, name: Ocean Two, icon: pi pi-sun, colors: {primary: "#667eea", gradient: "linear-gradient(135deg, #667eea 0%, #764ba2 100%)"}}
`,
			wantErr: "duplicate theme id",
		},
		{
			name: "bad_color",
			body: `themes:
  - {id: ocean, name: Ocean, icon: pi pi-sun, colors: {primary: blue, gradient: "linear-gradient(135deg, #667eea 0%, #764ba2 100%)"}}
`,
			wantErr: "6-digit hex",
		},
		{
			name: "unsafe_gradient",
			body: `themes:
  - {id: ocean, name: Ocean, icon: pi pi-sun, colors: {primary: "#667eea", gradient: "red;}</style><script>"}}
`,
			wantErr: "not a CSS gradient",
		},
		{
			name: "unknown_field",
			body: `themes:
  - {id: ocean, name: Ocean, icon: pi pi-sun, dark: true, colors: {primary: "#667eea", gradient: "linear-gradient(135deg, #667eea 0%, #764ba2 100%)"}}
`,
			wantErr: "dark",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseCatalog(strings.NewReader(test.body))
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Fatalf("ParseCatalog() error = %v, want containing %q", err, test.wantErr)
			}
		})
	}
}

func TestNewRegistry_Empty(t *testing.T) {
	if _, err := NewRegistry(); !errors.Is(err, ErrEmptyRegistry) {
		t.Fatalf("NewRegistry() error = %v, want ErrEmptyRegistry", err)
	}
}

func TestRegistry_FindByID(t *testing.T) {
	registry := testRegistry(t)

	theme, ok := registry.FindByID("forest")
	if !ok || theme.Name != "Forest" {
		t.Fatalf("FindByID(forest) = %+v, %v", theme, ok)
	}
	if _, ok := registry.FindByID("Forest"); ok {
		t.Fatalf("FindByID is case sensitive")
	}
	if _, ok := registry.FindByID(""); ok {
		t.Fatalf("FindByID(\"\") should miss")
	}
}

func TestTheme_SecondaryColorAndCSSVars(t *testing.T) {
	registry := testRegistry(t)

	tests := []struct {
		id   string
		want string
	}{
		{id: "elementary", want: "#0099c4"},
		{id: "sunset", want: "#f5576c"},
		{id: "coral", want: "#ffa07a"},
	}
	for _, test := range tests {
		theme, _ := registry.FindByID(test.id)
		if got := theme.SecondaryColor(); got != test.want {
			t.Fatalf("SecondaryColor(%s) = %q, want %q", test.id, got, test.want)
		}
	}

	plain := Theme{Colors: Colors{Primary: "#112233", Gradient: "linear-gradient(#112233, white)"}}
	if got := plain.SecondaryColor(); got != "#112233" {
		t.Fatalf("SecondaryColor() with one stop = %q, want primary", got)
	}

	ocean, _ := registry.FindByID("ocean")
	vars := ocean.CSSVars()
	for _, want := range []string{"--theme-primary:#667eea", "--theme-secondary:#764ba2", "--theme-gradient:linear-gradient(135deg"} {
		if !strings.Contains(vars, want) {
			t.Fatalf("CSSVars() = %q, missing %q", vars, want)
		}
	}
}

func TestLighten(t *testing.T) {
	if got := Lighten("#000000", 0.5); got != "#808080" {
		t.Fatalf("Lighten() = %q, want #808080", got)
	}
	if got := Lighten("#ffffff", 0.3); got != "#ffffff" {
		t.Fatalf("Lighten() = %q, want #ffffff", got)
	}
	if got := Lighten("teal", 0.3); got != "teal" {
		t.Fatalf("Lighten() invalid = %q, want passthrough", got)
	}
}

func TestNewService_DefaultsWithoutPreference(t *testing.T) {
	ctx := context.Background()
	store := newStore().For("device", "session")
	marker := &DocumentMarker{}

	svc := NewService(ctx, testRegistry(t), store, marker)

	if svc.Current().ID != "elementary" {
		t.Fatalf("Current() = %q, want elementary", svc.Current().ID)
	}
	if marker.Value() != "elementary" {
		t.Fatalf("marker = %q, want elementary", marker.Value())
	}
	if got := persistedID(t, store); got != "elementary" {
		t.Fatalf("persisted = %q, want elementary", got)
	}
	version, ok, err := storage.Get[int](ctx, store, PreferenceVersionKey, storage.Durable)
	if err != nil || !ok || version != PreferenceVersion {
		t.Fatalf("version = %d, %v, %v; want %d", version, ok, err, PreferenceVersion)
	}
}

func TestNewService_UnknownPersistedIDFallsBack(t *testing.T) {
	ctx := context.Background()
	store := newStore().For("device", "session")
	if err := storage.Set(ctx, store, PreferenceKey, "neon", storage.Durable); err != nil {
		t.Fatalf("seed preference: %v", err)
	}

	svc := NewService(ctx, testRegistry(t), store, nil)
	if svc.Current().ID != "elementary" {
		t.Fatalf("Current() = %q, want elementary", svc.Current().ID)
	}
	if got := persistedID(t, store); got != "elementary" {
		t.Fatalf("persisted = %q, want elementary", got)
	}
}

func TestSetTheme_RoundTripAcrossReload(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	registry := testRegistry(t)

	first := NewService(ctx, registry, store.For("device", "session-1"), nil)
	if !first.SetTheme(ctx, "ocean") {
		t.Fatalf("SetTheme(ocean) = false, want true")
	}

	reloaded := NewService(ctx, registry, store.For("device", "session-2"), nil)
	if reloaded.Current().ID != "ocean" {
		t.Fatalf("reloaded Current() = %q, want ocean", reloaded.Current().ID)
	}
}

func TestSetTheme_UnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := newStore().For("device", "session")
	marker := &DocumentMarker{}
	svc := NewService(ctx, testRegistry(t), store, marker)
	svc.SetTheme(ctx, "royal")

	if svc.SetTheme(ctx, "does-not-exist") {
		t.Fatalf("SetTheme(does-not-exist) = true, want false")
	}
	if svc.Current().ID != "royal" {
		t.Fatalf("Current() = %q, want royal", svc.Current().ID)
	}
	if marker.Value() != "royal" {
		t.Fatalf("marker = %q, want royal", marker.Value())
	}
	if got := persistedID(t, store); got != "royal" {
		t.Fatalf("persisted = %q, want royal", got)
	}
}

func TestIsDarkTheme(t *testing.T) {
	ctx := context.Background()
	registry := testRegistry(t)
	svc := NewService(ctx, registry, nil, nil)

	for theme := range registry.All() {
		svc.SetTheme(ctx, theme.ID)
		if got, want := svc.IsDarkTheme(), theme.ID == "midnight"; got != want {
			t.Fatalf("IsDarkTheme() with %s = %v, want %v", theme.ID, got, want)
		}
	}
}

func TestThemeScenario(t *testing.T) {
	ctx := context.Background()
	registry := testRegistry(t, "elementary", "ocean", "sunset")
	store := newStore().For("device", "session")
	marker := &DocumentMarker{}

	svc := NewService(ctx, registry, store, marker)
	if svc.Current().ID != "elementary" {
		t.Fatalf("initial theme = %q, want elementary", svc.Current().ID)
	}

	svc.SetTheme(ctx, "sunset")
	if svc.Current().ID != "sunset" || persistedID(t, store) != "sunset" || marker.Value() != "sunset" {
		t.Fatalf("after sunset: current=%q persisted=%q marker=%q", svc.Current().ID, persistedID(t, store), marker.Value())
	}

	svc.SetTheme(ctx, "bogus")
	if svc.Current().ID != "sunset" {
		t.Fatalf("after bogus: current = %q, want sunset", svc.Current().ID)
	}
}

type countingMarker struct {
	applied []string
}

func (m *countingMarker) Apply(id string) {
	m.applied = append(m.applied, id)
}

func TestSetTheme_SameIDReapplies(t *testing.T) {
	ctx := context.Background()
	marker := &countingMarker{}
	svc := NewService(ctx, testRegistry(t), nil, marker)

	svc.SetTheme(ctx, "elementary")
	if len(marker.applied) != 2 {
		t.Fatalf("marker applied %d times, want 2", len(marker.applied))
	}
}

func TestSubscribe_LatestWins(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, testRegistry(t), nil, nil)

	updates, cancel := svc.Subscribe()
	other, cancelOther := svc.Subscribe()
	defer cancelOther()

	if got := <-updates; got.ID != "elementary" {
		t.Fatalf("first value = %q, want elementary", got.ID)
	}

	svc.SetTheme(ctx, "ocean")
	svc.SetTheme(ctx, "forest")
	svc.SetTheme(ctx, "coral")

	if got := <-updates; got.ID != "coral" {
		t.Fatalf("latest value = %q, want coral", got.ID)
	}
	if got := <-other; got.ID != "coral" {
		t.Fatalf("second subscriber value = %q, want coral", got.ID)
	}

	cancel()
	cancel()
	if _, open := <-updates; open {
		t.Fatalf("channel still open after cancel")
	}
	if svc.SubscriberCount() != 1 {
		t.Fatalf("SubscriberCount() = %d, want 1", svc.SubscriberCount())
	}
}

func TestPool_EvictionRebuildsFromPersistedID(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	pool := NewPool(testRegistry(t), store, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	pool.now = func() time.Time { return now }

	client := pool.Get(ctx, "device-1", "session-1")
	client.SetTheme(ctx, "midnight")
	if again := pool.Get(ctx, "device-1", "session-1"); again != client {
		t.Fatalf("Get() returned a new client before eviction")
	}

	// Simulate a crash between the state change and the marker: the marker
	// drifts, the persisted id does not.
	client.Marker.Apply("ocean")

	now = now.Add(2 * time.Minute)
	if removed := pool.Evict(ctx); removed != 1 {
		t.Fatalf("Evict() = %d, want 1", removed)
	}

	rebuilt := pool.Get(ctx, "device-1", "session-2")
	if rebuilt == client {
		t.Fatalf("Get() after eviction returned the evicted client")
	}
	if rebuilt.Current().ID != "midnight" || rebuilt.Marker.Value() != "midnight" {
		t.Fatalf("rebuilt = %q marker %q, want midnight", rebuilt.Current().ID, rebuilt.Marker.Value())
	}
}

func TestPool_KeepsSubscribedServices(t *testing.T) {
	ctx := context.Background()
	pool := NewPool(testRegistry(t), newStore(), time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	pool.now = func() time.Time { return now }

	client := pool.Get(ctx, "device-1", "session-1")
	_, cancel := client.Subscribe()

	now = now.Add(time.Hour)
	if removed := pool.Evict(ctx); removed != 0 {
		t.Fatalf("Evict() = %d, want 0 while subscribed", removed)
	}

	cancel()
	if removed := pool.Evict(ctx); removed != 1 {
		t.Fatalf("Evict() = %d, want 1 after unsubscribe", removed)
	}
	if pool.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", pool.Len())
	}
}

func TestPool_ReloadKeepsSubscribers(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	pool := NewPool(testRegistry(t), store, time.Minute)

	client := pool.Get(ctx, "device-1", "session-1")
	updates, cancel := client.Subscribe()
	defer cancel()
	<-updates

	// A write that bypasses SetTheme, as the storage API does.
	if err := storage.Set(ctx, store.For("device-1", "session-1"), PreferenceKey, "ocean", storage.Durable); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	pool.Reload(ctx, "device-1")

	if got := (<-updates).ID; got != "ocean" {
		t.Fatalf("update after Reload = %q, want ocean", got)
	}
	if client.Marker.Value() != "ocean" {
		t.Fatalf("marker = %q, want ocean", client.Marker.Value())
	}
	if again := pool.Get(ctx, "device-1", "session-1"); again != client {
		t.Fatal("Get() after Reload returned a different client")
	}

	client.SetTheme(ctx, "sunset")
	if got := (<-updates).ID; got != "sunset" {
		t.Fatalf("update after SetTheme = %q, want sunset", got)
	}

	// Unknown devices are left alone.
	pool.Reload(ctx, "device-2")
	if pool.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", pool.Len())
	}
}

func TestService_ReloadFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	svc := newStore().For("device-1", "session-1")
	service := NewService(ctx, testRegistry(t), svc, nil)
	service.SetTheme(ctx, "forest")

	if err := svc.Clear(ctx, storage.Durable); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if got := service.Reload(ctx).ID; got != "elementary" {
		t.Fatalf("Reload() = %q, want elementary", got)
	}
	saved, _, _ := storage.Get[string](ctx, svc, PreferenceKey, storage.Durable)
	if saved != "elementary" {
		t.Fatalf("persisted = %q, want elementary", saved)
	}
}

func TestPool_ConcurrentGetSharesClient(t *testing.T) {
	ctx := context.Background()
	pool := NewPool(testRegistry(t), newStore(), time.Minute)

	const workers = 8
	clients := make(chan *Client, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clients <- pool.Get(ctx, "device-1", "session-1")
		}()
	}
	wg.Wait()
	close(clients)

	first := <-clients
	for c := range clients {
		if c != first {
			t.Fatal("concurrent Get() returned different clients")
		}
	}
	if pool.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", pool.Len())
	}
}
