// Package response contiene los tipos y funciones para formar las
// respuestas JSON unificadas de los handlers HTTP: éxito con datos,
// error con mensaje y errores de validación.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response es la estructura estándar de respuesta del servidor.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse es la forma del error para la documentación Swagger.
// Se usa en las anotaciones @Failure como tipo de retorno.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK es el estado de una respuesta exitosa.
	StatusOK = "OK"
	// StatusError es el estado de una respuesta con error.
	StatusError = "Error"
)

// OKWithData devuelve una respuesta exitosa con los datos dados.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// OK devuelve una respuesta exitosa sin datos.
func OK() Response {
	return Response{Status: StatusOK}
}

// Error devuelve una respuesta de error con el mensaje dado.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError arma una respuesta de error a partir de las
// violaciones de validación, una frase legible por violación.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}
