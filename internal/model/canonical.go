package model

// CanonicalField 业务字段（由多个可能的表头写法解析而来）
type CanonicalField string

const (
	FieldRequestDate      CanonicalField = "request_date"       // Data da Solicitação
	FieldRequest          CanonicalField = "request"            // SOLICITAÇÃO
	FieldRecordNumber     CanonicalField = "record_number"      // Nº Prontuário
	FieldPhone            CanonicalField = "phone"              // Telefone
	FieldRequestingUnit   CanonicalField = "requesting_unit"    // Unidade Solicitante
	FieldSpecialty        CanonicalField = "specialty"          // Cbo Especialidade
	FieldPendingStartDate CanonicalField = "pending_start_date" // Data Início da Pendência
	FieldStatus           CanonicalField = "status"             // Status
	FieldProvider         CanonicalField = "provider"           // Prestador
	FieldDeadline15       CanonicalField = "deadline_15"        // 15 天期限
	FieldEmail15          CanonicalField = "email_15"           // 15 天邮件发送日期
	FieldDeadline30       CanonicalField = "deadline_30"        // 30 天期限
	FieldEmail30          CanonicalField = "email_30"           // 30 天邮件发送日期
	FieldAssignedUser     CanonicalField = "assigned_user"      // Usuário
)

// CanonicalFields 全部业务字段
func CanonicalFields() []CanonicalField {
	return []CanonicalField{
		FieldRequestDate,
		FieldRequest,
		FieldRecordNumber,
		FieldPhone,
		FieldRequestingUnit,
		FieldSpecialty,
		FieldPendingStartDate,
		FieldStatus,
		FieldProvider,
		FieldDeadline15,
		FieldEmail15,
		FieldDeadline30,
		FieldEmail30,
		FieldAssignedUser,
	}
}
