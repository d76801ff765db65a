// Package docs registra la definición OpenAPI servida en /swagger.
// Se regenera con `swag init -g cmd/api/main.go` a partir de los godoc de los handlers.
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
        "/events/{eventID}/audit": {
            "get": {
                "summary": "Listar auditoría de un evento",
                "description": "Devuelve las entradas de auditoría del evento (cambios de estado, go-live forzado, generaciones IA), más recientes primero.",
                "tags": [
                    "audit"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Máximo de entradas (1-500). Por defecto 100",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "array",
                            "items": {
                                "type": "object"
                            }
                        }
                    },
                    "400": {
                        "description": "invalid input",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "500": {
                        "description": "internal error",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/ai/generate": {
            "post": {
                "summary": "Generar texto con IA",
                "description": "Redacta relances RSVP, cartas de visa, pedidos de deck o un análisis de riesgos (FR/EN). Con event_id, el análisis de riesgos usa el checklist go/no-go del evento y la generación queda auditada.",
                "tags": [
                    "ai"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del operador (auditoría)",
                        "name": "X-Operator-ID",
                        "in": "header"
                    },
                    {
                        "description": "action: generate-rsvp-reminder | generate-visa-letter | generate-deck-request | generate-risk-analysis",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "invalid json / invalid input",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "502": {
                        "description": "ai upstream error",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "503": {
                        "description": "ai generation not configured",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events": {
            "post": {
                "summary": "Crear evento",
                "description": "Crea un evento en estado DRAFT y sus 14 workstreams por defecto. ` + "`" + `X-Operator-ID` + "`" + ` identifica al operador en la auditoría.",
                "tags": [
                    "events"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del operador (auditoría)",
                        "name": "X-Operator-ID",
                        "in": "header"
                    },
                    {
                        "description": "Datos del evento; selected_week en formato YYYY-MM-DD",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "invalid json / selected_week inválido / reglas de negocio",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            },
            "get": {
                "summary": "Listar eventos",
                "tags": [
                    "events"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Filtrar por estado (DRAFT, LOCKED, LIVE, CLOSED)",
                        "name": "status",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Filtrar por fondo (IPAE_1, IPAE_2, IPAE_3)",
                        "name": "fund",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Máximo de eventos (1-200). Por defecto 50",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "array",
                            "items": {
                                "type": "object"
                            }
                        }
                    },
                    "400": {
                        "description": "filtro inválido",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "500": {
                        "description": "internal error",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events/{eventID}": {
            "get": {
                "summary": "Obtener evento",
                "tags": [
                    "events"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "500": {
                        "description": "internal error",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            },
            "patch": {
                "summary": "Actualizar evento",
                "description": "Modifica nombre, ubicación, semana, presupuesto o notas. Un evento CLOSED no se puede editar.",
                "tags": [
                    "events"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del operador (auditoría)",
                        "name": "X-Operator-ID",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Campos a modificar",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "invalid json / reglas de negocio",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "409": {
                        "description": "event is closed",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            },
            "delete": {
                "summary": "Eliminar evento",
                "description": "Borra el evento con participantes, proveedores, workstreams, tareas, visitas y presupuesto. Un evento LIVE no se puede borrar.",
                "tags": [
                    "events"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del operador (auditoría)",
                        "name": "X-Operator-ID",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "sin contenido"
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "409": {
                        "description": "invalid status transition",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "500": {
                        "description": "internal error",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events/{eventID}/stats": {
            "get": {
                "summary": "Tablero del evento",
                "description": "Contadores de tareas, participantes y presupuesto, días hasta el evento y avance por workstream (on-track, at-risk, blocked, complete).",
                "tags": [
                    "events"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "500": {
                        "description": "internal error",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events/{eventID}/go-no-go": {
            "get": {
                "summary": "Checklist go/no-go",
                "description": "Evalúa los 10 checks de preparación (blockers y warnings) sobre el estado actual del evento. can_go_live es true solo si todos los blockers pasan.",
                "tags": [
                    "events"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "500": {
                        "description": "internal error",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events/{eventID}/lock": {
            "post": {
                "summary": "Bloquear planificación",
                "description": "DRAFT -> LOCKED.",
                "tags": [
                    "events"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del operador (auditoría)",
                        "name": "X-Operator-ID",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "409": {
                        "description": "invalid status transition",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events/{eventID}/go-live": {
            "post": {
                "summary": "Pasar a LIVE",
                "description": "LOCKED -> LIVE solo si todos los blockers del go/no-go pasan. Si alguno falla responde 409 con la lista de blockers.",
                "tags": [
                    "events"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del operador (auditoría)",
                        "name": "X-Operator-ID",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "409": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/events/{eventID}/force-go-live": {
            "post": {
                "summary": "Forzar paso a LIVE",
                "description": "LOCKED -> LIVE ignorando blockers. Requiere justificación no vacía; queda registrada en la auditoría con los checks del momento.",
                "tags": [
                    "events"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del operador (auditoría)",
                        "name": "X-Operator-ID",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Justificación",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "justification required",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "409": {
                        "description": "invalid status transition",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events/{eventID}/close": {
            "post": {
                "summary": "Cerrar evento",
                "description": "LIVE -> CLOSED.",
                "tags": [
                    "events"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del operador (auditoría)",
                        "name": "X-Operator-ID",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "409": {
                        "description": "invalid status transition",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events/{eventID}/participants": {
            "post": {
                "summary": "Agregar participante",
                "description": "Registra un participante (LP, miembro AC/AB, equipo...) en el evento. visa_status y rsvp_status alimentan los checks visas-approved y lp-confirmed.",
                "tags": [
                    "logistics"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos del participante",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "invalid json / invalid input",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            },
            "get": {
                "summary": "Listar participantes",
                "tags": [
                    "logistics"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "array",
                            "items": {
                                "type": "object"
                            }
                        }
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events/{eventID}/participants/{participantID}": {
            "patch": {
                "summary": "Actualizar visa / RSVP de un participante",
                "tags": [
                    "logistics"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "ID del participante",
                        "name": "participantID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Campos a modificar (null/ausente = no tocar)",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "invalid json / invalid input",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            },
            "delete": {
                "summary": "Eliminar participante",
                "tags": [
                    "logistics"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "ID del participante",
                        "name": "participantID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "sin contenido"
                    },
                    "404": {
                        "description": "not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events/{eventID}/participants/bulk-rsvp": {
            "post": {
                "summary": "RSVP masivo",
                "description": "Aplica el mismo RSVP a varios participantes. Si algún ID no pertenece al evento no se modifica ninguno.",
                "tags": [
                    "logistics"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "IDs y RSVP",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "invalid json / invalid input",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events/{eventID}/vendors": {
            "post": {
                "summary": "Agregar prestatario",
                "description": "Registra un prestatario (hotel, transporte, AV, traducción...). contract_signed alimenta hotel-contracted, av-confirmed y transport-confirmed.",
                "tags": [
                    "logistics"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos del prestatario",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "invalid json / invalid input",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            },
            "get": {
                "summary": "Listar prestatarios",
                "tags": [
                    "logistics"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "array",
                            "items": {
                                "type": "object"
                            }
                        }
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events/{eventID}/vendors/{vendorID}": {
            "patch": {
                "summary": "Actualizar contrato / estado de un prestatario",
                "tags": [
                    "logistics"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "ID del prestatario",
                        "name": "vendorID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Campos a modificar",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "invalid json / invalid input",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events/{eventID}/workstreams": {
            "get": {
                "summary": "Listar workstreams con sus tareas",
                "tags": [
                    "logistics"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "array",
                            "items": {
                                "type": "object"
                            }
                        }
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events/{eventID}/workstreams/{workstreamID}/tasks": {
            "post": {
                "summary": "Crear tarea en un workstream",
                "description": "Tareas con criticality BLOCKING no terminadas hacen fallar no-blocking-tasks.",
                "tags": [
                    "logistics"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "ID del workstream",
                        "name": "workstreamID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos de la tarea; deadline en formato YYYY-MM-DD",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "invalid json / invalid input",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events/{eventID}/tasks/{taskID}": {
            "patch": {
                "summary": "Actualizar estado / criticidad de una tarea",
                "tags": [
                    "logistics"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "ID de la tarea",
                        "name": "taskID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Campos a modificar",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "invalid json / invalid input",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            },
            "delete": {
                "summary": "Eliminar tarea",
                "tags": [
                    "logistics"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "ID de la tarea",
                        "name": "taskID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "sin contenido"
                    },
                    "404": {
                        "description": "not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events/{eventID}/tasks/bulk-status": {
            "post": {
                "summary": "Cambio de estado masivo",
                "description": "Aplica el mismo estado a varias tareas. Si algún ID no pertenece al evento no se modifica ninguna.",
                "tags": [
                    "logistics"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "IDs y estado",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "invalid json / invalid input",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events/{eventID}/tasks/blocking": {
            "get": {
                "summary": "Tareas bloqueantes abiertas",
                "description": "Tareas con criticidad BLOCKING o HIGH que no están DONE, en el orden de los workstreams.",
                "tags": [
                    "logistics"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "array",
                            "items": {
                                "type": "object"
                            }
                        }
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "500": {
                        "description": "internal error",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events/{eventID}/company-visits": {
            "post": {
                "summary": "Agregar visita de empresa",
                "tags": [
                    "logistics"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos de la visita; visit_date en formato YYYY-MM-DD",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "invalid json / invalid input",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            },
            "get": {
                "summary": "Listar visitas de empresas",
                "tags": [
                    "logistics"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "array",
                            "items": {
                                "type": "object"
                            }
                        }
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events/{eventID}/company-visits/{visitID}": {
            "patch": {
                "summary": "Actualizar preparación de una visita",
                "tags": [
                    "logistics"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "ID de la visita",
                        "name": "visitID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Campos a modificar",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "invalid json",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/events/{eventID}/budget-lines": {
            "post": {
                "summary": "Agregar línea de presupuesto",
                "description": "amount_committed (null = 0) se suma para el check budget-ok.",
                "tags": [
                    "logistics"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos de la línea",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "invalid json / invalid input",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            },
            "get": {
                "summary": "Listar líneas de presupuesto",
                "tags": [
                    "logistics"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del evento",
                        "name": "eventID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "",
                        "schema": {
                            "type": "array",
                            "items": {
                                "type": "object"
                            }
                        }
                    },
                    "404": {
                        "description": "event not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
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
	Title:            "Advisory Events API",
	Description:      "Go/no-go de eventos AC/AB: eventos, logística, checklist de preparación, auditoría y copiloto IA.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
