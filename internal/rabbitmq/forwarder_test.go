package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"securechat/internal/mocks"
	"securechat/internal/models"
)

func TestForwarderPublishesTypedRoutingKey(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	publisher.On("Publish", mock.Anything, "chat.events."+models.EventMessageNew, mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(EventEnvelope)
		return ok &&
			envelope.EventType == models.EventMessageNew &&
			envelope.Event.ConversationKey == models.GeneralKey &&
			envelope.OccurredAt != ""
	})).Return(nil).Once()

	fwd := NewEventForwarder(publisher, "chat.events")
	fwd.Notify(models.Event{Type: models.EventMessageNew, ConversationKey: models.GeneralKey})

	publisher.AssertExpectations(t)
}

func TestForwarderSwallowsPublishErrors(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	publisher.On("Publish", mock.Anything, "chat.events."+models.EventSweep, mock.Anything).
		Return(assert.AnError).Once()

	fwd := NewEventForwarder(publisher, "chat.events")
	fwd.Notify(models.Event{Type: models.EventSweep, Removed: 3})

	publisher.AssertExpectations(t)
}

func TestForwarderWithoutPublisherIsNoop(t *testing.T) {
	var fwd *EventForwarder
	fwd.Notify(models.Event{Type: models.EventPresence})

	NewEventForwarder(nil, "chat.events").Notify(models.Event{Type: models.EventPresence})
}
