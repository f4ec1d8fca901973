package service

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"rhythm_room/internal/models"
	"rhythm_room/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUser 建立新玩家並回傳發放的 token。
// token 是不透明的 uuid，之後所有請求都以它識別玩家。
func (s *UserService) CreateUser(name string, leaderCardID int) (string, error) {
	token := uuid.NewString()
	user := &models.User{
		Name:         name,
		Token:        token,
		LeaderCardID: leaderCardID,
	}
	if err := s.userRepo.Create(user); err != nil {
		return "", err
	}
	log.Info().Str("module", "service.user").Uint("user_id", user.ID).Msg("user created")
	return token, nil
}

// GetUserByToken 以 token 解析玩家身份
func (s *UserService) GetUserByToken(token string) (*models.User, error) {
	return s.userRepo.FindByToken(token)
}

// UpdateUser 修改玩家名稱與頭像。這些欄位不影響任何房間邏輯。
func (s *UserService) UpdateUser(user *models.User, name string, leaderCardID int) error {
	user.Name = name
	user.LeaderCardID = leaderCardID
	return s.userRepo.Update(user)
}
