package dialog

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/meetbot/internal/application"
	"github.com/example/meetbot/internal/control"
)

// adminMenu handles the stateless user administration menu. Add and delete
// open their dialogs; list and back only render.
func (e *Engine) adminMenu(ctx context.Context, actor application.User, st State, item control.AdminItem) transition {
	if !actor.IsAdmin() {
		return stay(st, plainReply(textNoRightsUsers))
	}

	switch item {
	case control.AdminList:
		users, err := e.store.ListUsers(ctx)
		if err != nil {
			return transition{state: st, replies: []Reply{plainReply(textFailure)}, err: err}
		}
		if len(users) == 0 {
			return stay(st, htmlReply(textNoUsers, e.adminControls()))
		}
		return stay(st, htmlReply(userList(users), e.adminControls()))

	case control.AdminAdd:
		next, ok := e.begin(st, KindAdminAddUser)
		if !ok {
			return busy(st)
		}
		next.Step = StepInputID
		return stay(next, htmlReply(textAskNewUserID, nil))

	case control.AdminDelete:
		next, ok := e.begin(st, KindAdminDeleteUser)
		if !ok {
			return busy(st)
		}
		next.Step = StepInputID
		return stay(next, htmlReply(textAskDeleteID, nil))

	case control.AdminBack:
		return stay(st, menuReply(textBackToMain, actor))
	}
	return stay(st)
}

// adminAddStep is the add-user transition function.
func (e *Engine) adminAddStep(ctx context.Context, st State, in input) transition {
	if !in.isText() {
		return stay(st)
	}

	switch st.Step {
	case StepInputID:
		identity, err := application.ParseIdentity(in.text)
		if err != nil {
			msg, _ := validationMessage(err)
			return stay(st, plainReply("❌ "+msg+"\nВведите Telegram ID пользователя:"))
		}
		_, err = e.store.GetUser(ctx, identity)
		switch {
		case err == nil:
			return stay(st, plainReply(fmt.Sprintf("❌ Пользователь с ID %d уже существует.\n\nВведите другой Telegram ID:", identity)))
		case !errors.Is(err, application.ErrNotFound):
			return storeFailure(st, err)
		}
		st.Identity = identity
		st.Step = StepInputName
		return stay(st, plainReply(fmt.Sprintf("✅ ID пользователя: %d\n\n%s", identity, textAskNewName)))

	case StepInputName:
		name, err := application.ValidateDisplayName(in.text)
		if err != nil {
			msg, _ := validationMessage(err)
			return stay(st, plainReply("❌ "+msg+"\n"+textAskNewName))
		}
		user, err := e.store.CreateUser(ctx, application.UserInput{
			Identity:    st.Identity,
			DisplayName: name,
			Role:        application.RoleOperator,
		})
		if err != nil {
			msg := "❌ Ошибка при добавлении пользователя."
			if errors.Is(err, application.ErrAlreadyExists) {
				msg = fmt.Sprintf("❌ Пользователь с ID %d уже существует.", st.Identity)
			}
			return abort(st, err, htmlReply(msg, e.adminControls()))
		}
		text := fmt.Sprintf("✅ Пользователь успешно добавлен!\n\n"+
			"👤 <b>Имя:</b> %s\n🆔 <b>Telegram ID:</b> <code>%d</code>\n📊 <b>Роль:</b> %s\n\n"+
			"Пользователь сможет войти в бот после команды /start.",
			esc(user.DisplayName), user.Identity, user.Role.Label())
		return finish(st, htmlReply(text, e.adminControls()))
	}
	return stay(st)
}

// adminDeleteStep is the delete-user transition function.
func (e *Engine) adminDeleteStep(ctx context.Context, actor application.User, st State, in input) transition {
	if !in.isText() || st.Step != StepInputID {
		return stay(st)
	}

	identity, err := application.ParseIdentity(in.text)
	if err != nil {
		msg, _ := validationMessage(err)
		return stay(st, plainReply("❌ "+msg+"\nВведите Telegram ID пользователя для удаления:"))
	}
	if identity == actor.Identity {
		return stay(st, plainReply(textSelfDelete))
	}

	user, err := e.store.GetUser(ctx, identity)
	switch {
	case errors.Is(err, application.ErrNotFound):
		return stay(st, plainReply(fmt.Sprintf("❌ Пользователь с ID %d не найден.\n\nВведите Telegram ID существующего пользователя:", identity)))
	case err != nil:
		return storeFailure(st, err)
	}

	if err := e.store.DeleteUser(ctx, identity); err != nil {
		msg := fmt.Sprintf("❌ Не удалось удалить пользователя с ID %d.", identity)
		if errors.Is(err, application.ErrNotFound) {
			return finish(st, htmlReply(msg, e.adminControls()))
		}
		return abort(st, err, htmlReply(msg, e.adminControls()))
	}
	text := fmt.Sprintf("✅ Пользователь %s (ID: %d) успешно удален.", esc(user.DisplayName), identity)
	return finish(st, htmlReply(text, e.adminControls()))
}
