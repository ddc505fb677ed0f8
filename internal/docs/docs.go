// Package docs registra la especificación OpenAPI que sirve /swagger/*.
// Se regenera con: swag init -g cmd/api/main.go -o internal/docs --outputTypes go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/auth/register": {
            "post": {
                "description": "Crea una cuenta con rol user y abre la sesión (cookie HttpOnly con JWT).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Registrar usuario",
                "parameters": [
                    {"description": "Datos de registro", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/users.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/users.userResponse"}},
                    "400": {"description": "validation failed"},
                    "409": {"description": "email already registered"}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Iniciar sesión",
                "parameters": [
                    {"description": "Credenciales", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/users.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.userResponse"}},
                    "401": {"description": "invalid email or password"}
                }
            }
        },
        "/api/auth/logout": {
            "post": {"tags": ["auth"], "summary": "Cerrar sesión", "responses": {"204": {"description": "No Content"}}}
        },
        "/api/auth/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Usuario actual",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.userResponse"}},
                    "401": {"description": "unauthorized"}
                }
            }
        },
        "/api/auth/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Listar usuarios (admin)",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/users.userResponse"}}},
                    "403": {"description": "forbidden"}
                }
            }
        },
        "/api/auth/users/{userID}/role": {
            "patch": {
                "description": "El cambio aplica en el próximo request del usuario, sin re-login.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Cambiar rol (admin)",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userID", "in": "path", "required": true},
                    {"description": "Nuevo rol", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/users.setRoleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.userResponse"}},
                    "400": {"description": "validation failed"},
                    "404": {"description": "user not found"},
                    "409": {"description": "admins cannot change their own role"}
                }
            }
        },
        "/api/pets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Listar mascotas",
                "parameters": [
                    {"type": "string", "description": "dog | cat | rabbit | bird | other", "name": "species", "in": "query"},
                    {"type": "string", "description": "small | medium | large", "name": "size", "in": "query"},
                    {"type": "string", "description": "low | medium | high", "name": "energy_level", "in": "query"},
                    {"type": "string", "description": "alias de energy_level", "name": "energy", "in": "query"},
                    {"type": "string", "description": "available | pending | adopted", "name": "status", "in": "query"},
                    {"type": "string", "description": "Busca en nombre, raza y descripción", "name": "q", "in": "query"},
                    {"type": "string", "description": "newest | oldest | name | age | fee", "name": "sort", "in": "query"},
                    {"type": "integer", "description": "Página (base 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Tamaño de página (1-100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "invalid query"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Crear mascota (admin)",
                "parameters": [
                    {"description": "Datos de la mascota", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/pets.createPetRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "validation failed"},
                    "403": {"description": "forbidden"}
                }
            }
        },
        "/api/pets/{petID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Detalle de mascota",
                "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "pet not found"}}
            },
            "patch": {
                "consumes": ["application/json"],
                "tags": ["pets"],
                "summary": "Actualizar mascota (admin)",
                "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "pet not found"}}
            },
            "delete": {
                "tags": ["pets"],
                "summary": "Borrar mascota (admin)",
                "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "pet not found"}}
            }
        },
        "/api/pets/{petID}/image": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Subir foto (admin)",
                "parameters": [
                    {"type": "string", "name": "petID", "in": "path", "required": true},
                    {"type": "file", "description": "jpeg, png, gif o webp", "name": "image", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "invalid image or too large"},
                    "503": {"description": "storage unavailable"}
                }
            }
        },
        "/api/adoption": {
            "get": {
                "produces": ["application/json"],
                "tags": ["adoption"],
                "summary": "Listar solicitudes (admin)",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "pet_id", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["adoption"],
                "summary": "Solicitar adopción",
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "pet not found"},
                    "409": {"description": "pet not available / duplicate"}
                }
            }
        },
        "/api/adoption/me": {
            "get": {"produces": ["application/json"], "tags": ["adoption"], "summary": "Mis solicitudes", "responses": {"200": {"description": "OK"}}}
        },
        "/api/adoption/{applicationID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["adoption"],
                "summary": "Detalle de solicitud",
                "parameters": [{"type": "string", "name": "applicationID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "application not found"}}
            }
        },
        "/api/adoption/{applicationID}/withdraw": {
            "post": {
                "tags": ["adoption"],
                "summary": "Retirar solicitud",
                "parameters": [{"type": "string", "name": "applicationID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "application is not pending"}}
            }
        },
        "/api/adoption/{applicationID}/review": {
            "patch": {
                "description": "Aprobar marca la mascota como adoptada y rechaza el resto de solicitudes pending.",
                "tags": ["adoption"],
                "summary": "Revisar solicitud (admin)",
                "parameters": [{"type": "string", "name": "applicationID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "application is not pending"}}
            }
        },
        "/api/quiz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["quiz"],
                "summary": "Quiz activo",
                "responses": {"200": {"description": "OK"}, "404": {"description": "no active quiz"}}
            },
            "post": {
                "consumes": ["application/json"],
                "tags": ["quiz"],
                "summary": "Crear quiz (admin)",
                "responses": {"201": {"description": "Created"}, "400": {"description": "validation failed"}}
            }
        },
        "/api/quiz/all": {
            "get": {
                "produces": ["application/json"],
                "tags": ["quiz"],
                "summary": "Listar quizzes (admin)",
                "responses": {"200": {"description": "OK"}, "403": {"description": "forbidden"}}
            }
        },
        "/api/quiz/{quizID}": {
            "get": {
                "description": "Los pesos solo se incluyen para admin.",
                "produces": ["application/json"],
                "tags": ["quiz"],
                "summary": "Quiz por ID",
                "parameters": [{"type": "string", "name": "quizID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "quiz not found"}}
            },
            "delete": {
                "tags": ["quiz"],
                "summary": "Borrar quiz (admin)",
                "parameters": [{"type": "string", "name": "quizID", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "quiz not found"}}
            }
        },
        "/api/quiz/{quizID}/activate": {
            "post": {
                "description": "Desactiva el quiz activo anterior.",
                "produces": ["application/json"],
                "tags": ["quiz"],
                "summary": "Activar quiz (admin)",
                "parameters": [{"type": "string", "name": "quizID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "quiz not found"}}
            }
        },
        "/api/quiz/{quizID}/submit": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["quiz"],
                "summary": "Responder quiz",
                "parameters": [{"type": "string", "name": "quizID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "invalid answers"}, "404": {"description": "quiz not found"}}
            }
        },
        "/api/quiz/responses/me": {
            "get": {"produces": ["application/json"], "tags": ["quiz"], "summary": "Mis resultados", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "users.registerRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string", "maxLength": 120},
                "password": {"type": "string", "maxLength": 72, "minLength": 8}
            }
        },
        "users.setRoleRequest": {
            "type": "object",
            "required": ["role"],
            "properties": {
                "role": {"type": "string", "enum": ["user", "admin"]}
            }
        },
        "users.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "users.userResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "pets.createPetRequest": {
            "type": "object",
            "required": ["name", "species"],
            "properties": {
                "name": {"type": "string"},
                "species": {"type": "string"},
                "breed": {"type": "string"},
                "age_months": {"type": "integer"},
                "sex": {"type": "string"},
                "size": {"type": "string"},
                "energy_level": {"type": "string"},
                "good_with_kids": {"type": "boolean"},
                "good_with_pets": {"type": "boolean"},
                "description": {"type": "string"},
                "adoption_fee": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pet Adoption API",
	Description:      "API de adopción de mascotas: catálogo, solicitudes y quiz de compatibilidad.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
