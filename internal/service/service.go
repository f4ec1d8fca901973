package service

import (
	"rhythm_room/internal/repository"
)

type Services struct {
	User *UserService
	Room *RoomService
}

func NewServices(repos *repository.Repositories) *Services {
	return &Services{
		User: NewUserService(repos.User),
		Room: NewRoomService(repos.Room),
	}
}
