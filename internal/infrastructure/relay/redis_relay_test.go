package relay

import (
	"context"
	"encoding/json"
	"testing"

	"bookinghub/internal/domain/entities"
	mock_interfaces "bookinghub/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestRedisRelay_Handle(t *testing.T) {
	n := entities.Notification{ID: "n1", Sequence: 7, Recipient: entities.SubjectRecipient("c1", entities.RoleCustomer), Summary: "s"}

	t.Run("foreign message is pushed locally", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		local := mock_interfaces.NewMockILivePusher(ctrl)
		r := newRedisRelay(nil, "ch", local)

		local.EXPECT().Push(gomock.Any(), n).Return(1, nil)

		b, _ := json.Marshal(envelope{Origin: "other", Notification: n})
		r.handle(context.Background(), string(b))
	})

	t.Run("own and malformed messages are ignored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		local := mock_interfaces.NewMockILivePusher(ctrl)
		r := newRedisRelay(nil, "ch", local)

		b, _ := json.Marshal(envelope{Origin: r.origin, Notification: n})
		r.handle(context.Background(), string(b))
		r.handle(context.Background(), "{")
	})
}
