//go:build linux || darwin || freebsd || windows

package native

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/wippyai/steamworks-go"
	"github.com/wippyai/steamworks-go/errors"
)

// Versioned accessor symbols. Pinned to the SDK generation the bridge is
// written against; bumping an interface version is an API review, not a
// find-and-replace.
const (
	symUtils     = "SteamAPI_SteamUtils_v010"
	symUser      = "SteamAPI_SteamUser_v023"
	symFriends   = "SteamAPI_SteamFriends_v017"
	symApps      = "SteamAPI_SteamApps_v008"
	symUserStats = "SteamAPI_SteamUserStats_v013"
)

// Options configures Open.
type Options struct {
	// Path points at the vendor shared library. Empty means: resolve via
	// the STEAMWORKS_LIB environment variable and the default candidates.
	Path string
}

// Lib binds the vendor shared library through purego. One Lib per
// process is the intended use; the vendor runtime itself is a singleton.
// Safe for concurrent use after Open, except the manual-dispatch entry
// points, which the callbacks package confines to one thread.
type Lib struct {
	mu     sync.Mutex
	handle uintptr
	path   string
	closed bool

	authBuf [1024]byte

	fnInit                func() bool
	fnShutdown            func()
	fnIsSteamRunning      func() bool
	fnRestartApp          func(uint32) bool
	fnGetHSteamPipe       func() int32
	fnGetHSteamUser       func() int32
	fnReleaseThreadMemory func()

	fnDispatchInit     func()
	fnDispatchRunFrame func(int32)
	fnDispatchGetNext  func(int32, unsafe.Pointer) bool
	fnDispatchFreeLast func(int32)
	fnDispatchResult   func(int32, uint64, unsafe.Pointer, int32, int32, unsafe.Pointer) bool

	fnSteamUtils     func() uintptr
	fnSteamUser      func() uintptr
	fnSteamFriends   func() uintptr
	fnSteamApps      func() uintptr
	fnSteamUserStats func() uintptr

	fnUtilsServerRealTime    func(uintptr) uint32
	fnUtilsAppID             func(uintptr) uint32
	fnUtilsIPCountry         func(uintptr) string
	fnUtilsSecondsSinceApp   func(uintptr) uint32
	fnUtilsOnSteamDeck       func(uintptr) bool
	fnUtilsCheckFileSig      func(uintptr, string) uint64
	fnUserSteamID            func(uintptr) uint64
	fnUserLoggedOn           func(uintptr) bool
	fnUserGetAuthTicket      func(uintptr, unsafe.Pointer, int32, unsafe.Pointer, unsafe.Pointer) uint32
	fnUserCancelAuthTicket   func(uintptr, uint32)
	fnFriendsPersonaName     func(uintptr) string
	fnFriendsPersonaState    func(uintptr) int32
	fnAppsGameLanguage       func(uintptr) string
	fnAppsIsSubscribed       func(uintptr) bool
	fnAppsBuildID            func(uintptr) int32
	fnAppsIsDLCInstalled     func(uintptr, uint32) bool
	fnStatsRequestUserStats  func(uintptr, uint64) uint64
	fnStatsRequestCurrent    func(uintptr) bool
	fnStatsGetAchievement    func(uintptr, string, unsafe.Pointer) bool
	fnStatsSetAchievement    func(uintptr, string) bool
	fnStatsStoreStats        func(uintptr) bool
}

// Open loads the vendor shared library and resolves every symbol the
// bridge uses. The library stays mapped until Close.
func Open(opts Options) (*Lib, error) {
	var (
		handle  uintptr
		path    string
		lastErr error
	)
	for _, candidate := range libraryCandidates(opts.Path) {
		h, err := openLibrary(candidate)
		if err == nil {
			handle, path = h, candidate
			break
		}
		lastErr = err
	}
	if handle == 0 {
		return nil, errors.LibraryLoad("no loadable vendor library among candidates", lastErr)
	}

	l := &Lib{handle: handle, path: path}
	if err := l.bind(); err != nil {
		_ = closeLibrary(handle)
		return nil, err
	}

	Logger().Debug("vendor library loaded", zap.String("path", path))
	return l, nil
}

// Path returns the file the library was loaded from.
func (l *Lib) Path() string {
	return l.path
}

// Close unmaps the library. Idempotent. No Lib method may be used after
// Close; shut the session down first.
func (l *Lib) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return closeLibrary(l.handle)
}

func (l *Lib) bind() error {
	required := []struct {
		name string
		fptr any
	}{
		{"SteamAPI_Init", &l.fnInit},
		{"SteamAPI_Shutdown", &l.fnShutdown},
		{"SteamAPI_IsSteamRunning", &l.fnIsSteamRunning},
		{"SteamAPI_RestartAppIfNecessary", &l.fnRestartApp},
		{"SteamAPI_GetHSteamPipe", &l.fnGetHSteamPipe},
		{"SteamAPI_GetHSteamUser", &l.fnGetHSteamUser},
		{"SteamAPI_ManualDispatch_Init", &l.fnDispatchInit},
		{"SteamAPI_ManualDispatch_RunFrame", &l.fnDispatchRunFrame},
		{"SteamAPI_ManualDispatch_GetNextCallback", &l.fnDispatchGetNext},
		{"SteamAPI_ManualDispatch_FreeLastCallback", &l.fnDispatchFreeLast},
		{"SteamAPI_ManualDispatch_GetAPICallResult", &l.fnDispatchResult},
		{symUtils, &l.fnSteamUtils},
		{symUser, &l.fnSteamUser},
		{symFriends, &l.fnSteamFriends},
		{symApps, &l.fnSteamApps},
		{symUserStats, &l.fnSteamUserStats},
		{"SteamAPI_ISteamUtils_GetServerRealTime", &l.fnUtilsServerRealTime},
		{"SteamAPI_ISteamUtils_GetAppID", &l.fnUtilsAppID},
		{"SteamAPI_ISteamUtils_GetIPCountry", &l.fnUtilsIPCountry},
		{"SteamAPI_ISteamUtils_GetSecondsSinceAppActive", &l.fnUtilsSecondsSinceApp},
		{"SteamAPI_ISteamUtils_CheckFileSignature", &l.fnUtilsCheckFileSig},
		{"SteamAPI_ISteamUser_GetSteamID", &l.fnUserSteamID},
		{"SteamAPI_ISteamUser_BLoggedOn", &l.fnUserLoggedOn},
		{"SteamAPI_ISteamUser_GetAuthSessionTicket", &l.fnUserGetAuthTicket},
		{"SteamAPI_ISteamUser_CancelAuthTicket", &l.fnUserCancelAuthTicket},
		{"SteamAPI_ISteamFriends_GetPersonaName", &l.fnFriendsPersonaName},
		{"SteamAPI_ISteamFriends_GetPersonaState", &l.fnFriendsPersonaState},
		{"SteamAPI_ISteamApps_GetCurrentGameLanguage", &l.fnAppsGameLanguage},
		{"SteamAPI_ISteamApps_BIsSubscribed", &l.fnAppsIsSubscribed},
		{"SteamAPI_ISteamApps_GetAppBuildId", &l.fnAppsBuildID},
		{"SteamAPI_ISteamApps_BIsDlcInstalled", &l.fnAppsIsDLCInstalled},
		{"SteamAPI_ISteamUserStats_RequestUserStats", &l.fnStatsRequestUserStats},
		{"SteamAPI_ISteamUserStats_RequestCurrentStats", &l.fnStatsRequestCurrent},
		{"SteamAPI_ISteamUserStats_GetAchievement", &l.fnStatsGetAchievement},
		{"SteamAPI_ISteamUserStats_SetAchievement", &l.fnStatsSetAchievement},
		{"SteamAPI_ISteamUserStats_StoreStats", &l.fnStatsStoreStats},
	}
	for _, sym := range required {
		if err := registerFunc(sym.fptr, l.handle, sym.name); err != nil {
			return err
		}
	}

	// Optional symbols: absent in older SDK builds, degrade gracefully.
	registerOptionalFunc(&l.fnUtilsOnSteamDeck, l.handle, "SteamAPI_ISteamUtils_IsSteamRunningOnSteamDeck")
	registerOptionalFunc(&l.fnReleaseThreadMemory, l.handle, "SteamAPI_ReleaseCurrentThreadMemory")
	return nil
}

// registerFunc resolves one required symbol. purego panics on missing
// symbols, so the panic is converted into a load error here.
func registerFunc(fptr any, handle uintptr, name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.LibraryLoad(fmt.Sprintf("symbol %s not resolved", name), fmt.Errorf("%v", r))
		}
	}()
	purego.RegisterLibFunc(fptr, handle, name)
	return nil
}

func registerOptionalFunc(fptr any, handle uintptr, name string) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Debug("optional symbol not resolved", zap.String("symbol", name))
		}
	}()
	purego.RegisterLibFunc(fptr, handle, name)
}

func (l *Lib) IsSteamRunning() bool {
	return l.fnIsSteamRunning()
}

func (l *Lib) RestartAppIfNecessary(app steamworks.AppID) bool {
	return l.fnRestartApp(uint32(app))
}

func (l *Lib) InitClient() error {
	if !l.fnInit() {
		// The boolean entry point collapses every failure to false;
		// probe once more so the code distinguishes a missing client.
		r := InitResultFailedGeneric
		if !l.fnIsSteamRunning() {
			r = InitResultNoSteamClient
		}
		return errors.FromInitResult("native.init", int32(r), r.Message())
	}
	return nil
}

func (l *Lib) Shutdown() {
	l.fnShutdown()
}

func (l *Lib) Pipe() HSteamPipe {
	return HSteamPipe(l.fnGetHSteamPipe())
}

func (l *Lib) CurrentUser() HSteamUser {
	return HSteamUser(l.fnGetHSteamUser())
}

func (l *Lib) ReleaseCurrentThreadMemory() {
	if l.fnReleaseThreadMemory != nil {
		l.fnReleaseThreadMemory()
	}
}

func (l *Lib) ManualDispatchInit() {
	l.fnDispatchInit()
}

func (l *Lib) RunFrame(pipe HSteamPipe) {
	l.fnDispatchRunFrame(int32(pipe))
}

// rawCallbackMsg mirrors the vendor's CallbackMsg_t on 64-bit targets.
type rawCallbackMsg struct {
	user int32
	id   int32
	data uintptr
	size int32
}

func (l *Lib) NextCallback(pipe HSteamPipe) (CallbackMsg, bool) {
	var raw rawCallbackMsg
	if !l.fnDispatchGetNext(int32(pipe), unsafe.Pointer(&raw)) {
		return CallbackMsg{}, false
	}
	msg := CallbackMsg{
		User: HSteamUser(raw.user),
		ID:   CallbackID(raw.id),
	}
	if raw.data != 0 && raw.size > 0 {
		// Copy out of vendor memory; the slot dies at FreeLastCallback.
		src := unsafe.Slice((*byte)(unsafe.Pointer(raw.data)), int(raw.size))
		msg.Data = make([]byte, len(src))
		copy(msg.Data, src)
	}
	return msg, true
}

func (l *Lib) FreeLastCallback(pipe HSteamPipe) {
	l.fnDispatchFreeLast(int32(pipe))
}

func (l *Lib) APICallResult(pipe HSteamPipe, call steamworks.APICall, size int, expect CallbackID) ([]byte, bool, bool) {
	if size < 0 {
		return nil, false, false
	}
	buf := make([]byte, max(size, 1))
	var failed uint8
	ok := l.fnDispatchResult(int32(pipe), uint64(call),
		unsafe.Pointer(&buf[0]), int32(size), int32(expect), unsafe.Pointer(&failed))
	if !ok {
		return nil, false, false
	}
	return buf[:size], failed != 0, true
}

func (l *Lib) Utils() (Utils, error) {
	self := l.fnSteamUtils()
	if self == 0 {
		return nil, errors.NativeCall("native.utils", "accessor returned null (no active session)")
	}
	return &libUtils{lib: l, self: self}, nil
}

func (l *Lib) User() (User, error) {
	self := l.fnSteamUser()
	if self == 0 {
		return nil, errors.NativeCall("native.user", "accessor returned null (no active session)")
	}
	return &libUser{lib: l, self: self}, nil
}

func (l *Lib) Friends() (Friends, error) {
	self := l.fnSteamFriends()
	if self == 0 {
		return nil, errors.NativeCall("native.friends", "accessor returned null (no active session)")
	}
	return &libFriends{lib: l, self: self}, nil
}

func (l *Lib) Apps() (Apps, error) {
	self := l.fnSteamApps()
	if self == 0 {
		return nil, errors.NativeCall("native.apps", "accessor returned null (no active session)")
	}
	return &libApps{lib: l, self: self}, nil
}

func (l *Lib) UserStats() (UserStats, error) {
	self := l.fnSteamUserStats()
	if self == 0 {
		return nil, errors.NativeCall("native.user_stats", "accessor returned null (no active session)")
	}
	return &libUserStats{lib: l, self: self}, nil
}

type libUtils struct {
	lib  *Lib
	self uintptr
}

func (u *libUtils) ServerRealTime() uint32 {
	return u.lib.fnUtilsServerRealTime(u.self)
}

func (u *libUtils) AppID() steamworks.AppID {
	return steamworks.AppID(u.lib.fnUtilsAppID(u.self))
}

func (u *libUtils) IPCountry() string {
	return u.lib.fnUtilsIPCountry(u.self)
}

func (u *libUtils) SecondsSinceAppActive() uint32 {
	return u.lib.fnUtilsSecondsSinceApp(u.self)
}

func (u *libUtils) IsSteamRunningOnSteamDeck() bool {
	if u.lib.fnUtilsOnSteamDeck == nil {
		return false
	}
	return u.lib.fnUtilsOnSteamDeck(u.self)
}

func (u *libUtils) CheckFileSignature(path string) steamworks.APICall {
	return steamworks.APICall(u.lib.fnUtilsCheckFileSig(u.self, path))
}

type libUser struct {
	lib  *Lib
	self uintptr
}

func (u *libUser) SteamID() steamworks.SteamID {
	return steamworks.SteamID(u.lib.fnUserSteamID(u.self))
}

func (u *libUser) LoggedOn() bool {
	return u.lib.fnUserLoggedOn(u.self)
}

func (u *libUser) AuthSessionTicket() (steamworks.HAuthTicket, []byte, error) {
	u.lib.mu.Lock()
	defer u.lib.mu.Unlock()

	var written uint32
	ticket := u.lib.fnUserGetAuthTicket(u.self,
		unsafe.Pointer(&u.lib.authBuf[0]), int32(len(u.lib.authBuf)),
		unsafe.Pointer(&written), nil)
	if ticket == uint32(steamworks.InvalidAuthTicket) {
		return steamworks.InvalidAuthTicket, nil,
			errors.NativeCall("native.auth_session_ticket", "ticket issuance failed")
	}
	data := make([]byte, written)
	copy(data, u.lib.authBuf[:written])
	return steamworks.HAuthTicket(ticket), data, nil
}

func (u *libUser) CancelAuthTicket(ticket steamworks.HAuthTicket) {
	u.lib.fnUserCancelAuthTicket(u.self, uint32(ticket))
}

type libFriends struct {
	lib  *Lib
	self uintptr
}

func (f *libFriends) PersonaName() string {
	return f.lib.fnFriendsPersonaName(f.self)
}

func (f *libFriends) PersonaState() EPersonaState {
	return EPersonaState(f.lib.fnFriendsPersonaState(f.self))
}

type libApps struct {
	lib  *Lib
	self uintptr
}

func (a *libApps) CurrentGameLanguage() string {
	return a.lib.fnAppsGameLanguage(a.self)
}

func (a *libApps) IsSubscribed() bool {
	return a.lib.fnAppsIsSubscribed(a.self)
}

func (a *libApps) AppBuildID() int32 {
	return a.lib.fnAppsBuildID(a.self)
}

func (a *libApps) IsDLCInstalled(app steamworks.AppID) bool {
	return a.lib.fnAppsIsDLCInstalled(a.self, uint32(app))
}

type libUserStats struct {
	lib  *Lib
	self uintptr
}

func (s *libUserStats) RequestUserStats(user steamworks.SteamID) steamworks.APICall {
	return steamworks.APICall(s.lib.fnStatsRequestUserStats(s.self, uint64(user)))
}

func (s *libUserStats) RequestCurrentStats() bool {
	return s.lib.fnStatsRequestCurrent(s.self)
}

func (s *libUserStats) Achievement(name string) (bool, error) {
	var achieved uint8
	if !s.lib.fnStatsGetAchievement(s.self, name, unsafe.Pointer(&achieved)) {
		return false, errors.NativeCall("native.get_achievement",
			fmt.Sprintf("achievement %q unknown or stats not loaded", name))
	}
	return achieved != 0, nil
}

func (s *libUserStats) SetAchievement(name string) error {
	if !s.lib.fnStatsSetAchievement(s.self, name) {
		return errors.NativeCall("native.set_achievement",
			fmt.Sprintf("achievement %q rejected", name))
	}
	return nil
}

func (s *libUserStats) StoreStats() error {
	if !s.lib.fnStatsStoreStats(s.self) {
		return errors.NativeCall("native.store_stats", "store request rejected")
	}
	return nil
}

var _ API = (*Lib)(nil)
