package models

// All lists the tables owned by the service, in creation order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&ProfessionalProfile{},
		&ServiceOrder{},
		&Review{},
		&PasswordReset{},
	}
}
