package native

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/wippyai/steamworks-go"
	"github.com/wippyai/steamworks-go/errors"
)

// Fake simulates the vendor runtime in-process. It implements API with
// the same observable sequencing as the real library: InitClient reads
// the SteamAppId environment variable, async completions become visible
// only after a RunFrame, and interface accessors fail without an active
// session.
//
// Every entry point increments a per-method counter, so tests can assert
// that a guarded code path issued zero native calls. The Fake also backs
// the CLI's simulator mode and the examples, which is why it lives here
// rather than in a _test file.
type Fake struct {
	mu sync.Mutex

	running     bool
	loggedOn    bool
	initialized bool
	dispatching bool
	onSteamDeck bool

	apps       map[steamworks.AppID]bool
	currentApp steamworks.AppID
	envSeen    string

	clock    func() time.Time
	launched time.Time

	steamID      steamworks.SteamID
	persona      string
	personaState EPersonaState
	country      string
	language     string
	subscribed   bool
	buildID      int32
	dlc          map[steamworks.AppID]bool
	achievements map[string]bool
	signedFiles  map[string]ECheckFileSignature

	nextCall   uint64
	nextTicket uint32
	arriving   []CallbackMsg
	queue      []CallbackMsg
	results    map[steamworks.APICall]fakeResult
	counters   map[string]int
}

type fakeResult struct {
	data   []byte
	id     CallbackID
	failed bool
}

var _ API = (*Fake)(nil)

// NewFake returns a simulator with a running client, the sample app
// registered, and a logged-on synthetic account.
func NewFake() *Fake {
	return &Fake{
		running:      true,
		loggedOn:     true,
		apps:         map[steamworks.AppID]bool{steamworks.SpacewarAppID: true},
		clock:        time.Now,
		steamID:      steamworks.SteamID(76561197960278073),
		persona:      "bridge dev",
		personaState: PersonaStateOnline,
		country:      "US",
		language:     "english",
		subscribed:   true,
		buildID:      1,
		dlc:          make(map[steamworks.AppID]bool),
		achievements: make(map[string]bool),
		signedFiles:  make(map[string]ECheckFileSignature),
		results:      make(map[steamworks.APICall]fakeResult),
		counters:     make(map[string]int),
	}
}

func (f *Fake) count(method string) {
	f.counters[method]++
}

// Calls returns how many times the named entry point ran.
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counters[method]
}

// TotalCalls returns the number of native entry-point invocations across
// all methods since construction or the last ResetCounters.
func (f *Fake) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.counters {
		total += n
	}
	return total
}

// ResetCounters zeroes all call counters.
func (f *Fake) ResetCounters() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters = make(map[string]int)
}

// SetRunning toggles whether the simulated client process is reachable.
func (f *Fake) SetRunning(running bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = running
}

// SetLoggedOn toggles the simulated backend connection.
func (f *Fake) SetLoggedOn(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedOn = on
}

// RegisterApp marks an app id as valid for initialization.
func (f *Fake) RegisterApp(app steamworks.AppID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apps[app] = true
}

// SetClock replaces the simulated server clock.
func (f *Fake) SetClock(clock func() time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = clock
}

// SetSteamID sets the logged-in account.
func (f *Fake) SetSteamID(id steamworks.SteamID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steamID = id
}

// SetPersona sets the local user's display name and presence.
func (f *Fake) SetPersona(name string, state EPersonaState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.persona = name
	f.personaState = state
}

// SetCountry sets the egress country code fixture.
func (f *Fake) SetCountry(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.country = code
}

// SetLanguage sets the app language fixture.
func (f *Fake) SetLanguage(lang string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.language = lang
}

// SetSubscribed sets app ownership.
func (f *Fake) SetSubscribed(owned bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed = owned
}

// SetBuildID sets the installed build number.
func (f *Fake) SetBuildID(id int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buildID = id
}

// SetOnSteamDeck sets the handheld environment flag.
func (f *Fake) SetOnSteamDeck(deck bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onSteamDeck = deck
}

// InstallDLC marks a DLC app as installed.
func (f *Fake) InstallDLC(app steamworks.AppID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dlc[app] = true
}

// DefineAchievement registers an achievement name, initially locked.
func (f *Fake) DefineAchievement(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.achievements[name]; !ok {
		f.achievements[name] = false
	}
}

// SignFile fixes the signature verdict returned for a path.
func (f *Fake) SignFile(path string, sig ECheckFileSignature) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signedFiles[path] = sig
}

// QueueBroadcast stages a broadcast callback. It becomes drainable after
// the next RunFrame, like every other completion.
func (f *Fake) QueueBroadcast(id CallbackID, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stageBroadcast(id, data)
}

// RequestAppShutdown stages the quit broadcast the client sends when
// the user closes it with apps still attached.
func (f *Fake) RequestAppShutdown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stageBroadcast(CallbackSteamShutdown, EncodeSteamShutdown())
}

// EnvSeenAtInit returns the SteamAppId value InitClient observed on its
// most recent invocation.
func (f *Fake) EnvSeenAtInit() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.envSeen
}

// Initialized reports whether a simulated session is active.
func (f *Fake) Initialized() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initialized
}

// DispatchReady reports whether manual dispatch was switched on.
func (f *Fake) DispatchReady() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dispatching
}

// PendingCallbacks returns how many messages are staged or drainable.
func (f *Fake) PendingCallbacks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.arriving) + len(f.queue)
}

func (f *Fake) stageBroadcast(id CallbackID, data []byte) {
	f.arriving = append(f.arriving, CallbackMsg{User: 1, ID: id, Data: data})
}

func (f *Fake) stageResult(id CallbackID, data []byte, failed bool) steamworks.APICall {
	f.nextCall++
	call := steamworks.APICall(f.nextCall)
	f.results[call] = fakeResult{id: id, data: data, failed: failed}
	f.arriving = append(f.arriving, CallbackMsg{
		User: 1,
		ID:   CallbackAPICallCompleted,
		Data: EncodeAPICallCompleted(APICallCompleted{
			Call: call,
			ID:   id,
			Size: uint32(len(data)),
		}),
	})
	return call
}

func (f *Fake) IsSteamRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("IsSteamRunning")
	return f.running
}

func (f *Fake) RestartAppIfNecessary(app steamworks.AppID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("RestartAppIfNecessary")
	return !f.running || !f.apps[app]
}

func (f *Fake) InitClient() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("InitClient")

	f.envSeen = os.Getenv("SteamAppId")
	if !f.running {
		return errors.FromInitResult("native.init",
			int32(InitResultNoSteamClient), InitResultNoSteamClient.Message())
	}
	id, err := strconv.ParseUint(f.envSeen, 10, 32)
	if err != nil {
		return errors.FromInitResult("native.init", int32(InitResultFailedGeneric),
			fmt.Sprintf("SteamAppId %q not a valid app id", f.envSeen))
	}
	app := steamworks.AppID(id)
	if !f.apps[app] {
		return errors.FromInitResult("native.init", int32(InitResultFailedGeneric),
			fmt.Sprintf("app id %d not registered with the client", app))
	}

	f.initialized = true
	f.currentApp = app
	f.launched = f.clock()
	return nil
}

func (f *Fake) Shutdown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("Shutdown")
	f.initialized = false
	f.dispatching = false
	f.currentApp = 0
	f.arriving = nil
	f.queue = nil
	f.results = make(map[steamworks.APICall]fakeResult)
}

func (f *Fake) Pipe() HSteamPipe {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("Pipe")
	if !f.initialized {
		return 0
	}
	return 1
}

func (f *Fake) CurrentUser() HSteamUser {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("CurrentUser")
	if !f.initialized {
		return 0
	}
	return 1
}

func (f *Fake) ReleaseCurrentThreadMemory() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("ReleaseCurrentThreadMemory")
}

func (f *Fake) ManualDispatchInit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("ManualDispatchInit")
	f.dispatching = true
}

func (f *Fake) RunFrame(pipe HSteamPipe) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("RunFrame")
	if !f.initialized || !f.dispatching {
		return
	}
	f.queue = append(f.queue, f.arriving...)
	f.arriving = nil
}

func (f *Fake) NextCallback(pipe HSteamPipe) (CallbackMsg, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("NextCallback")
	if len(f.queue) == 0 {
		return CallbackMsg{}, false
	}
	msg := f.queue[0]
	f.queue = f.queue[1:]
	return msg, true
}

func (f *Fake) FreeLastCallback(pipe HSteamPipe) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("FreeLastCallback")
}

func (f *Fake) APICallResult(pipe HSteamPipe, call steamworks.APICall, size int, expect CallbackID) ([]byte, bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("APICallResult")

	r, ok := f.results[call]
	if !ok || r.id != expect {
		return nil, false, false
	}
	delete(f.results, call)
	if size > len(r.data) {
		size = len(r.data)
	}
	return r.data[:size], r.failed, true
}

func (f *Fake) Utils() (Utils, error) {
	return fakeUtils{f}, f.accessor("Utils")
}

func (f *Fake) User() (User, error) {
	return fakeUser{f}, f.accessor("User")
}

func (f *Fake) Friends() (Friends, error) {
	return fakeFriends{f}, f.accessor("Friends")
}

func (f *Fake) Apps() (Apps, error) {
	return fakeApps{f}, f.accessor("Apps")
}

func (f *Fake) UserStats() (UserStats, error) {
	return fakeUserStats{f}, f.accessor("UserStats")
}

func (f *Fake) accessor(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count(name)
	if !f.initialized {
		return errors.NativeCall("native."+name, "accessor returned null (no active session)")
	}
	return nil
}

type fakeUtils struct{ f *Fake }

func (u fakeUtils) ServerRealTime() uint32 {
	u.f.mu.Lock()
	defer u.f.mu.Unlock()
	u.f.count("Utils.ServerRealTime")
	return uint32(u.f.clock().Unix())
}

func (u fakeUtils) AppID() steamworks.AppID {
	u.f.mu.Lock()
	defer u.f.mu.Unlock()
	u.f.count("Utils.AppID")
	return u.f.currentApp
}

func (u fakeUtils) IPCountry() string {
	u.f.mu.Lock()
	defer u.f.mu.Unlock()
	u.f.count("Utils.IPCountry")
	return u.f.country
}

func (u fakeUtils) SecondsSinceAppActive() uint32 {
	u.f.mu.Lock()
	defer u.f.mu.Unlock()
	u.f.count("Utils.SecondsSinceAppActive")
	if u.f.launched.IsZero() {
		return 0
	}
	return uint32(u.f.clock().Sub(u.f.launched) / time.Second)
}

func (u fakeUtils) IsSteamRunningOnSteamDeck() bool {
	u.f.mu.Lock()
	defer u.f.mu.Unlock()
	u.f.count("Utils.IsSteamRunningOnSteamDeck")
	return u.f.onSteamDeck
}

func (u fakeUtils) CheckFileSignature(path string) steamworks.APICall {
	u.f.mu.Lock()
	defer u.f.mu.Unlock()
	u.f.count("Utils.CheckFileSignature")

	sig, ok := u.f.signedFiles[path]
	if !ok {
		sig = CheckFileSignatureFileNotFound
	}
	return u.f.stageResult(CallbackCheckFileSignature,
		EncodeCheckFileSignature(CheckFileSignatureResult{Signature: sig}), false)
}

type fakeUser struct{ f *Fake }

func (u fakeUser) SteamID() steamworks.SteamID {
	u.f.mu.Lock()
	defer u.f.mu.Unlock()
	u.f.count("User.SteamID")
	return u.f.steamID
}

func (u fakeUser) LoggedOn() bool {
	u.f.mu.Lock()
	defer u.f.mu.Unlock()
	u.f.count("User.LoggedOn")
	return u.f.loggedOn
}

func (u fakeUser) AuthSessionTicket() (steamworks.HAuthTicket, []byte, error) {
	u.f.mu.Lock()
	defer u.f.mu.Unlock()
	u.f.count("User.AuthSessionTicket")

	if !u.f.loggedOn {
		return steamworks.InvalidAuthTicket, nil,
			errors.NativeCall("native.auth_session_ticket", "ticket issuance failed")
	}
	u.f.nextTicket++
	ticket := steamworks.HAuthTicket(u.f.nextTicket)
	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(uint32(ticket) + uint32(i))
	}
	u.f.stageBroadcast(CallbackAuthTicketResponse,
		EncodeAuthTicketResponse(AuthTicketResponse{Ticket: ticket, Result: EResultOK}))
	return ticket, data, nil
}

func (u fakeUser) CancelAuthTicket(ticket steamworks.HAuthTicket) {
	u.f.mu.Lock()
	defer u.f.mu.Unlock()
	u.f.count("User.CancelAuthTicket")
}

type fakeFriends struct{ f *Fake }

func (fr fakeFriends) PersonaName() string {
	fr.f.mu.Lock()
	defer fr.f.mu.Unlock()
	fr.f.count("Friends.PersonaName")
	return fr.f.persona
}

func (fr fakeFriends) PersonaState() EPersonaState {
	fr.f.mu.Lock()
	defer fr.f.mu.Unlock()
	fr.f.count("Friends.PersonaState")
	return fr.f.personaState
}

type fakeApps struct{ f *Fake }

func (a fakeApps) CurrentGameLanguage() string {
	a.f.mu.Lock()
	defer a.f.mu.Unlock()
	a.f.count("Apps.CurrentGameLanguage")
	return a.f.language
}

func (a fakeApps) IsSubscribed() bool {
	a.f.mu.Lock()
	defer a.f.mu.Unlock()
	a.f.count("Apps.IsSubscribed")
	return a.f.subscribed
}

func (a fakeApps) AppBuildID() int32 {
	a.f.mu.Lock()
	defer a.f.mu.Unlock()
	a.f.count("Apps.AppBuildID")
	return a.f.buildID
}

func (a fakeApps) IsDLCInstalled(app steamworks.AppID) bool {
	a.f.mu.Lock()
	defer a.f.mu.Unlock()
	a.f.count("Apps.IsDLCInstalled")
	return a.f.dlc[app]
}

type fakeUserStats struct{ f *Fake }

func (s fakeUserStats) RequestUserStats(user steamworks.SteamID) steamworks.APICall {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.count("UserStats.RequestUserStats")

	result := EResultOK
	if !user.IsValid() {
		result = EResultInvalidSteamID
	}
	return s.f.stageResult(CallbackUserStatsReceived,
		EncodeUserStatsReceived(UserStatsReceived{
			GameID: uint64(s.f.currentApp),
			Result: result,
			User:   user,
		}), result != EResultOK)
}

func (s fakeUserStats) RequestCurrentStats() bool {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.count("UserStats.RequestCurrentStats")

	s.f.stageBroadcast(CallbackUserStatsReceived,
		EncodeUserStatsReceived(UserStatsReceived{
			GameID: uint64(s.f.currentApp),
			Result: EResultOK,
			User:   s.f.steamID,
		}))
	return true
}

func (s fakeUserStats) Achievement(name string) (bool, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.count("UserStats.Achievement")

	achieved, ok := s.f.achievements[name]
	if !ok {
		return false, errors.NativeCall("native.get_achievement",
			fmt.Sprintf("achievement %q unknown or stats not loaded", name))
	}
	return achieved, nil
}

func (s fakeUserStats) SetAchievement(name string) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.count("UserStats.SetAchievement")

	if _, ok := s.f.achievements[name]; !ok {
		return errors.NativeCall("native.set_achievement",
			fmt.Sprintf("achievement %q rejected", name))
	}
	s.f.achievements[name] = true
	return nil
}

func (s fakeUserStats) StoreStats() error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.count("UserStats.StoreStats")
	return nil
}
