// Package testutils 提供測試用的記憶體版 repository 實作。
// 行為契約與 SQL 實作一致：同一房間的狀態變更以鎖序列化。
package testutils

import (
	"sort"
	"sync"

	"rhythm_room/internal/models"
	"rhythm_room/internal/repository"
	"rhythm_room/pkg/apperrors"
)

type seat struct {
	userID     uint
	difficulty models.LiveDifficulty
	isHost     bool
	order      int
}

type fakeRoom struct {
	liveID       int
	maxUserCount int
	status       models.WaitRoomStatus
	seats        []seat
	results      map[uint]models.RoomResult
}

// FakeRoomRepository 是 repository.RoomRepository 的記憶體實作
type FakeRoomRepository struct {
	mu      sync.Mutex
	nextID  uint
	nextSeq int
	rooms   map[uint]*fakeRoom
	users   map[uint]*models.User // 供成員列表 join 玩家名稱
}

func NewFakeRoomRepository() *FakeRoomRepository {
	return &FakeRoomRepository{
		nextID: 1,
		rooms:  make(map[uint]*fakeRoom),
		users:  make(map[uint]*models.User),
	}
}

var _ repository.RoomRepository = (*FakeRoomRepository)(nil)

func (f *FakeRoomRepository) rememberUser(u *models.User) {
	f.users[u.ID] = u
}

func (f *FakeRoomRepository) seated(userID uint) bool {
	for _, room := range f.rooms {
		for _, s := range room.seats {
			if s.userID == userID {
				return true
			}
		}
	}
	return false
}

func (f *FakeRoomRepository) CreateWithHost(liveID int, host *models.User, difficulty models.LiveDifficulty) (uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seated(host.ID) {
		return 0, apperrors.ErrAlreadySeated
	}

	f.rememberUser(host)
	id := f.nextID
	f.nextID++
	f.nextSeq++
	f.rooms[id] = &fakeRoom{
		liveID:       liveID,
		maxUserCount: models.DefaultMaxUserCount,
		status:       models.StatusWaiting,
		seats: []seat{{
			userID:     host.ID,
			difficulty: difficulty,
			isHost:     true,
			order:      f.nextSeq,
		}},
		results: make(map[uint]models.RoomResult),
	}
	return id, nil
}

func (f *FakeRoomRepository) ListWaiting(liveID int) ([]repository.RoomSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]uint, 0, len(f.rooms))
	for id := range f.rooms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []repository.RoomSummary
	for _, id := range ids {
		room := f.rooms[id]
		if room.status != models.StatusWaiting {
			continue
		}
		if len(room.seats) >= room.maxUserCount {
			continue
		}
		if liveID != 0 && room.liveID != liveID {
			continue
		}
		out = append(out, repository.RoomSummary{
			RoomID:          id,
			LiveID:          room.liveID,
			JoinedUserCount: len(room.seats),
			MaxUserCount:    room.maxUserCount,
		})
	}
	return out, nil
}

func (f *FakeRoomRepository) Join(roomID uint, user *models.User, difficulty models.LiveDifficulty) (models.JoinRoomResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	room, ok := f.rooms[roomID]
	if !ok || room.status == models.StatusDissolution {
		return models.JoinDisbanded, nil
	}
	if f.seated(user.ID) {
		return models.JoinOtherError, nil
	}
	if len(room.seats) >= room.maxUserCount {
		return models.JoinRoomFull, nil
	}

	f.rememberUser(user)
	f.nextSeq++
	room.seats = append(room.seats, seat{
		userID:     user.ID,
		difficulty: difficulty,
		isHost:     false,
		order:      f.nextSeq,
	})
	return models.JoinOk, nil
}

func (f *FakeRoomRepository) WaitStatus(roomID uint) (models.WaitRoomStatus, []repository.MemberEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	room, ok := f.rooms[roomID]
	if !ok {
		return models.StatusDissolution, nil, nil
	}

	seats := append([]seat(nil), room.seats...)
	sort.Slice(seats, func(i, j int) bool { return seats[i].order < seats[j].order })

	entries := make([]repository.MemberEntry, 0, len(seats))
	for _, s := range seats {
		entry := repository.MemberEntry{
			UserID:           s.userID,
			SelectDifficulty: s.difficulty,
			IsHost:           s.isHost,
		}
		if u, ok := f.users[s.userID]; ok {
			entry.Name = u.Name
			entry.LeaderCardID = u.LeaderCardID
		}
		entries = append(entries, entry)
	}
	return room.status, entries, nil
}

func (f *FakeRoomRepository) StartLive(roomID, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	room, ok := f.rooms[roomID]
	if !ok {
		return apperrors.ErrRoomNotFound
	}
	if room.status == models.StatusDissolution {
		return apperrors.ErrRoomDisbanded
	}

	var member *seat
	for i := range room.seats {
		if room.seats[i].userID == userID {
			member = &room.seats[i]
			break
		}
	}
	if member == nil {
		return apperrors.ErrMemberNotFound
	}
	if !member.isHost {
		return apperrors.ErrNotHost
	}

	room.status = models.StatusLiveStart
	return nil
}

func (f *FakeRoomRepository) SubmitResult(roomID, userID uint, judgeCounts string, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	room, ok := f.rooms[roomID]
	if !ok {
		return apperrors.ErrRoomNotFound
	}
	if room.status == models.StatusDissolution {
		return apperrors.ErrRoomDisbanded
	}

	seated := false
	for _, s := range room.seats {
		if s.userID == userID {
			seated = true
			break
		}
	}
	if !seated {
		return apperrors.ErrMemberNotFound
	}

	room.results[userID] = models.RoomResult{
		RoomID:      roomID,
		UserID:      userID,
		JudgeCounts: judgeCounts,
		Score:       score,
	}
	return nil
}

func (f *FakeRoomRepository) Results(roomID uint) ([]models.RoomResult, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	room, ok := f.rooms[roomID]
	if !ok || len(room.seats) == 0 {
		return nil, false, nil
	}

	for _, s := range room.seats {
		if _, ok := room.results[s.userID]; !ok {
			return nil, false, nil
		}
	}

	rows := make([]models.RoomResult, 0, len(room.results))
	for _, r := range room.results {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UserID < rows[j].UserID })
	return rows, true, nil
}

func (f *FakeRoomRepository) Leave(roomID, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	room, ok := f.rooms[roomID]
	if !ok {
		return apperrors.ErrRoomNotFound
	}

	idx := -1
	for i, s := range room.seats {
		if s.userID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperrors.ErrMemberNotFound
	}

	wasHost := room.seats[idx].isHost
	room.seats = append(room.seats[:idx], room.seats[idx+1:]...)
	delete(room.results, userID)

	if wasHost || len(room.seats) == 0 {
		room.seats = nil
		room.results = make(map[uint]models.RoomResult)
		room.status = models.StatusDissolution
	}
	return nil
}

// FakeUserRepository 是 repository.UserRepository 的記憶體實作
type FakeUserRepository struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*models.User
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{
		nextID: 1,
		byID:   make(map[uint]*models.User),
	}
}

var _ repository.UserRepository = (*FakeUserRepository)(nil)

func (f *FakeUserRepository) Create(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user.ID = f.nextID
	f.nextID++
	copied := *user
	f.byID[user.ID] = &copied
	return nil
}

func (f *FakeUserRepository) FindByToken(token string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.byID {
		if u.Token == token {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *FakeUserRepository) Update(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	copied := *user
	f.byID[user.ID] = &copied
	return nil
}
