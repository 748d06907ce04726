package engine

import "securechat/internal/models"

// ClassifySecret decides which access tier a submitted secret grants. Pure:
// no side effects, admin tier is never granted here — that happens at the
// username step, where the reserved admin username revalidates the secret
// against the admin config.
func ClassifySecret(secret, masterPassword string, rooms []models.Room) (models.Access, error) {
	if secret == masterPassword {
		return models.Access{Tier: models.TierPublic}, nil
	}
	for _, room := range rooms {
		if room.IsPrivate && room.Password != "" && room.Password == secret {
			return models.Access{Tier: models.TierRoom, RoomID: room.ID}, nil
		}
	}
	return models.Access{}, ErrDenied
}

// Classify loads the room set and classifies the secret against it.
func (e *Engine) Classify(secret string) (models.Access, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rooms, err := e.rooms.List()
	if err != nil {
		return models.Access{}, err
	}
	return ClassifySecret(secret, e.opts.MasterPassword, rooms)
}
