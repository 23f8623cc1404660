// Package docs Burn Ops Service API.
//
// Полевой сервис учёта предписанных выжиганий. Работает без сети: операции
// сохраняются в локальное хранилище и досылаются в центральное при появлении связи.
//
// Основные возможности:
// - Черновик операции: форма, контур участка, команда, анализ
// - Площадь и периметр участка
// - Сохранение с откатом в локальное хранилище и синхронизация бэклога
// - Погода, геокодирование, тактический анализ CPS, протокол LACES
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//	- text/markdown
//
// swagger:meta
package docs
