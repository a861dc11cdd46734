package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus PMS API",
        "description": "Placement management API centred on the Internship Performance Passport",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and session management"},
        {"name": "Passports", "description": "Internship Performance Passport lifecycle"},
        {"name": "Public", "description": "Unauthenticated mentor and viewer surface"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/passports": {
            "get": {
                "tags": ["Passports"],
                "summary": "List passports",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "student_id", "in": "query", "type": "string"},
                    {"name": "company", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Passports"],
                "summary": "Create internship passport",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePassportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Passport already exists"},
                    "422": {"description": "Application not eligible"}
                }
            }
        },
        "/passports/student/{studentId}": {
            "get": {
                "tags": ["Passports"],
                "summary": "List a student's passports",
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/passports/{ippId}": {
            "get": {
                "tags": ["Passports"],
                "summary": "Get passport",
                "parameters": [
                    {"name": "ippId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/passports/{ippId}/evaluation-request": {
            "post": {
                "tags": ["Passports"],
                "summary": "Request mentor evaluation",
                "parameters": [
                    {"name": "ippId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EvaluationRequestInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid state"}
                }
            }
        },
        "/passports/{ippId}/company-evaluation": {
            "put": {
                "tags": ["Public"],
                "summary": "Submit company mentor evaluation",
                "parameters": [
                    {"name": "ippId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CompanyEvaluationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid, expired or used token"}
                }
            }
        },
        "/passports/{ippId}/student-submission": {
            "put": {
                "tags": ["Passports"],
                "summary": "Submit student documentation",
                "parameters": [
                    {"name": "ippId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentSubmissionInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid state"}
                }
            }
        },
        "/passports/{ippId}/faculty-assessment": {
            "put": {
                "tags": ["Passports"],
                "summary": "Submit faculty assessment",
                "parameters": [
                    {"name": "ippId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FacultyAssessmentInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid state"}
                }
            }
        },
        "/passports/{ippId}/publish": {
            "post": {
                "tags": ["Passports"],
                "summary": "Publish passport",
                "parameters": [
                    {"name": "ippId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Admin only"},
                    "409": {"description": "Invalid state"}
                }
            }
        },
        "/public/passports/{ippId}": {
            "get": {
                "tags": ["Public"],
                "summary": "Public passport view",
                "parameters": [
                    {"name": "ippId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not published"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RefreshTokenRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "CreatePassportRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "internship_id": {"type": "string"},
                "application_id": {"type": "string"}
            },
            "required": ["internship_id"]
        },
        "EvaluationRequestInput": {
            "type": "object",
            "properties": {
                "mentor_name": {"type": "string"},
                "mentor_email": {"type": "string"},
                "mentor_designation": {"type": "string"}
            },
            "required": ["mentor_name", "mentor_email"]
        },
        "TechnicalSkills": {
            "type": "object",
            "properties": {
                "domain_knowledge": {"type": "integer"},
                "problem_solving": {"type": "integer"},
                "code_quality": {"type": "integer"},
                "learning_agility": {"type": "integer"},
                "tool_proficiency": {"type": "integer"}
            }
        },
        "SoftSkills": {
            "type": "object",
            "properties": {
                "punctuality": {"type": "integer"},
                "teamwork": {"type": "integer"},
                "communication": {"type": "integer"},
                "leadership": {"type": "integer"},
                "adaptability": {"type": "integer"},
                "work_ethic": {"type": "integer"}
            }
        },
        "CompanyEvaluationRequest": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "mentor_name": {"type": "string"},
                "mentor_email": {"type": "string"},
                "technical_skills": {"$ref": "#/definitions/TechnicalSkills"},
                "soft_skills": {"$ref": "#/definitions/SoftSkills"},
                "strengths": {"type": "array", "items": {"type": "string"}},
                "areas_for_improvement": {"type": "array", "items": {"type": "string"}},
                "would_rehire": {"type": "boolean"},
                "recommendation_level": {"type": "string"},
                "detailed_feedback": {"type": "string"}
            },
            "required": ["token", "technical_skills", "soft_skills"]
        },
        "StudentSubmissionInput": {
            "type": "object",
            "properties": {
                "report_url": {"type": "string"},
                "project_docs_url": {"type": "string"},
                "certificate_url": {"type": "string"},
                "offer_letter_url": {"type": "string"},
                "reflection": {"type": "object"}
            },
            "required": ["report_url"]
        },
        "FacultyAssessmentInput": {
            "type": "object",
            "properties": {
                "faculty_name": {"type": "string"},
                "learning_outcomes": {"type": "object"},
                "academic_alignment": {"type": "object"},
                "remarks": {"type": "string"},
                "credits_awarded": {"type": "integer"},
                "grade": {"type": "string"},
                "approval_status": {"type": "string", "enum": ["approved", "rejected"]}
            },
            "required": ["approval_status"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
