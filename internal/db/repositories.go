package db

import "gorm.io/gorm"

type Repositories struct {
	Users     *UserRepository
	Payments  *PaymentRepository
	Reminders *ReminderRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(database),
		Payments:  NewPaymentRepository(database),
		Reminders: NewReminderRepository(database),
	}
}
