package request

// VerificationAnswer is one answered registration question.
type VerificationAnswer struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer"`
}

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Email        string               `json:"email" binding:"required,email,endswith=@bsu.edu.az"`
	Phone        string               `json:"phone" binding:"required,startswith=+994,len=13"`
	Password     string               `json:"password" binding:"required,min=6,max=64"`
	FullName     string               `json:"full_name" binding:"required,max=100"`
	Faculty      string               `json:"faculty" binding:"required"`
	Degree       string               `json:"degree" binding:"required,max=50"`
	Course       int                  `json:"course" binding:"required,min=1,max=6"`
	AvatarID     int                  `json:"avatar_id" binding:"omitempty,min=1"`
	Verification []VerificationAnswer `json:"verification" binding:"required,dive"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
