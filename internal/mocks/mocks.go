package mocks

import (
	"github.com/stretchr/testify/mock"

	"securechat/internal/models"
	"securechat/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) List() ([]models.Identity, error) {
	args := m.Called()
	var list []models.Identity
	if val := args.Get(0); val != nil {
		list = val.([]models.Identity)
	}
	return list, args.Error(1)
}

func (m *UserRepositoryMock) FindByUsername(username string) (models.Identity, error) {
	args := m.Called(username)
	var user models.Identity
	if val := args.Get(0); val != nil {
		user = val.(models.Identity)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) Upsert(user models.Identity) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *UserRepositoryMock) SetCurrent(user models.Identity) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *UserRepositoryMock) SaveSnapshot(user models.Identity) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *UserRepositoryMock) Snapshot(username string) (models.Identity, bool, error) {
	args := m.Called(username)
	var user models.Identity
	if val := args.Get(0); val != nil {
		user = val.(models.Identity)
	}
	return user, args.Bool(1), args.Error(2)
}

type RoomRepositoryMock struct {
	mock.Mock
}

func (m *RoomRepositoryMock) List() ([]models.Room, error) {
	args := m.Called()
	var list []models.Room
	if val := args.Get(0); val != nil {
		list = val.([]models.Room)
	}
	return list, args.Error(1)
}

func (m *RoomRepositoryMock) Get(roomID string) (models.Room, error) {
	args := m.Called(roomID)
	var room models.Room
	if val := args.Get(0); val != nil {
		room = val.(models.Room)
	}
	return room, args.Error(1)
}

func (m *RoomRepositoryMock) Save(room models.Room) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *RoomRepositoryMock) CountOwnedBy(userID string) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) List() ([]models.Message, error) {
	args := m.Called()
	var list []models.Message
	if val := args.Get(0); val != nil {
		list = val.([]models.Message)
	}
	return list, args.Error(1)
}

func (m *MessageRepositoryMock) Get(messageID string) (models.Message, error) {
	args := m.Called(messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) Append(msg models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MessageRepositoryMock) Update(msg models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MessageRepositoryMock) ReplaceAll(msgs []models.Message) error {
	args := m.Called(msgs)
	return args.Error(0)
}

type ConfigRepositoryMock struct {
	mock.Mock
}

func (m *ConfigRepositoryMock) Get() (models.AdminConfig, bool, error) {
	args := m.Called()
	var cfg models.AdminConfig
	if val := args.Get(0); val != nil {
		cfg = val.(models.AdminConfig)
	}
	return cfg, args.Bool(1), args.Error(2)
}

func (m *ConfigRepositoryMock) Save(cfg models.AdminConfig) error {
	args := m.Called(cfg)
	return args.Error(0)
}

var (
	_ repositories.UserRepository    = (*UserRepositoryMock)(nil)
	_ repositories.RoomRepository    = (*RoomRepositoryMock)(nil)
	_ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
	_ repositories.ConfigRepository  = (*ConfigRepositoryMock)(nil)
)
