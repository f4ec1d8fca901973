package repository

import "rhythm_room/internal/storage"

type Repositories struct {
	User UserRepository
	Room RoomRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		User: NewUserRepository(db),
		Room: NewRoomRepository(db),
	}
}
