// policy — правила доступа к комментариям.
//
// Модель строго «владелец»: ролей и переопределений для модераторов нет.
// Функции чистые, без I/O.
package policy

import "github.com/pribylovaa/yanews/internal/models"

// CanViewForm — форму нового комментария видит любой аутентифицированный пользователь.
func CanViewForm(requester models.Identity) bool {
	return !requester.IsAnonymous()
}

// CanModify — редактировать и удалять комментарий может только его автор.
func CanModify(requester, owner models.Identity) bool {
	if requester.IsAnonymous() {
		return false
	}

	return requester.Equal(owner)
}
