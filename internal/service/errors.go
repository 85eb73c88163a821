package service

import (
	"database/sql"
	"errors"
)

var (
	// ErrNotFound - запись не найдена или принадлежит другому пользователю.
	ErrNotFound = errors.New("не найдено")
	// ErrInvalidStatus - статус вне допустимого набора planning/confirmed/upcoming.
	ErrInvalidStatus = errors.New("недопустимый статус")
	// ErrEmptyCart - оформление пустой корзины.
	ErrEmptyCart = errors.New("корзина пуста")
	// ErrEmptyMessage - пустое сообщение консьержу.
	ErrEmptyMessage = errors.New("пустое сообщение")
	// ErrInvalidInput - некорректные входные данные.
	ErrInvalidInput = errors.New("некорректные данные")
	// ErrUpstream - сбой удаленного сервиса.
	ErrUpstream = errors.New("удаленный сервис недоступен")
)

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
