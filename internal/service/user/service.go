// Package user implements student registration, login and the admin
// operations on student accounts.
package user

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"bsu_chat_server/internal/dao/mysql/repository"
	"bsu_chat_server/internal/dto/request"
	"bsu_chat_server/internal/dto/respond"
	"bsu_chat_server/internal/infrastructure/mq"
	"bsu_chat_server/internal/model"
	"bsu_chat_server/pkg/constants"
	"bsu_chat_server/pkg/errorx"
	"bsu_chat_server/pkg/util/jwt"
	"bsu_chat_server/pkg/util/random"

	"go.uber.org/zap"
)

const emailDomain = "@bsu.edu.az"

var phonePattern = regexp.MustCompile(`^\+994\d{9}$`)

// questionAnswers maps question text to its answer.
var questionAnswers = func() map[string]string {
	m := make(map[string]string, len(constants.VerificationQuestions))
	for _, q := range constants.VerificationQuestions {
		m[q.Question] = q.Answer
	}
	return m
}()

type userInfoService struct {
	repos           *repository.Repositories
	publisher       mq.EventPublisher
	reportThreshold int
}

// NewUserService injects the repositories and the moderation publisher.
func NewUserService(repos *repository.Repositories, publisher mq.EventPublisher, reportThreshold int) *userInfoService {
	if reportThreshold <= 0 {
		reportThreshold = 8
	}
	return &userInfoService{repos: repos, publisher: publisher, reportThreshold: reportThreshold}
}

func (u *userInfoService) VerificationQuestions() []constants.VerificationQuestion {
	idx := random.SampleIndexes(len(constants.VerificationQuestions), constants.QUESTIONS_PER_FORM)
	out := make([]constants.VerificationQuestion, 0, len(idx))
	for _, i := range idx {
		out = append(out, constants.VerificationQuestions[i])
	}
	return out
}

// correctAnswers counts answers matching the pool. A question repeated in
// the form counts once.
func correctAnswers(answers []request.VerificationAnswer) int {
	seen := make(map[string]bool, len(answers))
	n := 0
	for _, a := range answers {
		if seen[a.Question] {
			continue
		}
		seen[a.Question] = true
		if want, ok := questionAnswers[a.Question]; ok && want == strings.TrimSpace(a.Answer) {
			n++
		}
	}
	return n
}

func (u *userInfoService) Register(req request.RegisterRequest) (*respond.RegisterRespond, error) {
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)

	if !strings.HasSuffix(email, emailDomain) {
		return nil, errorx.New(errorx.CodeInvalidParam, "Email @bsu.edu.az ilə bitməlidir")
	}
	if !phonePattern.MatchString(phone) {
		return nil, errorx.New(errorx.CodeInvalidParam, "Nömrə +994XXXXXXXXX formatında olmalıdır")
	}
	if !constants.IsFaculty(req.Faculty) {
		return nil, errorx.New(errorx.CodeInvalidParam, "Fakültə yanlışdır")
	}
	if correctAnswers(req.Verification) < constants.MIN_CORRECT_ANSWERS {
		return nil, errorx.New(errorx.CodeVerifyFailed, "Doğrulama uğursuz oldu. Minimum 2 sual düzgün cavablandırılmalıdır")
	}

	exists, err := u.repos.User.ExistsByEmailOrPhone(email, phone)
	if err != nil {
		zap.L().Error("register uniqueness check failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if exists {
		return nil, errorx.New(errorx.CodeUserExist, "Bu email və ya nömrə artıq qeydiyyatdan keçib")
	}

	avatar := req.AvatarID
	if avatar <= 0 {
		avatar = constants.DEFAULT_AVATAR_ID
	}
	user := &model.UserInfo{
		Email:       email,
		Phone:       phone,
		RawPassword: req.Password,
		FullName:    strings.TrimSpace(req.FullName),
		Faculty:     req.Faculty,
		Degree:      req.Degree,
		Course:      req.Course,
		AvatarID:    avatar,
		IsActive:    true,
	}
	if err := u.repos.User.Create(user); err != nil {
		zap.L().Error("create user failed", zap.String("email", email), zap.Error(err))
		return nil, errorx.New(errorx.CodeServerBusy, "Qeydiyyat zamanı xəta baş verdi")
	}
	zap.L().Info("user registered", zap.Uint("id", user.ID), zap.String("faculty", user.Faculty))
	return &respond.RegisterRespond{UserID: user.ID}, nil
}

func (u *userInfoService) Login(req request.LoginRequest) (*respond.LoginRespond, error) {
	invalid := errorx.New(errorx.CodeInvalidPassword, "Email və ya şifrə yanlışdır")

	user, err := u.repos.User.FindByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, invalid
		}
		zap.L().Error("login query failed", zap.Error(err))
		return nil, errorx.New(errorx.CodeServerBusy, "Giriş zamanı xəta baş verdi")
	}
	if !user.IsActive {
		return nil, errorx.New(errorx.CodeUserInactive, "Hesabınız deaktiv edilib")
	}
	if !user.CheckPassword(req.Password) {
		return nil, invalid
	}

	token, err := jwt.GenerateAccessToken(strconv.FormatUint(uint64(user.ID), 10), jwt.RoleUser)
	if err != nil {
		zap.L().Error("generate access token failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	return &respond.LoginRespond{
		User: respond.UserProfile{
			ID:       user.ID,
			Email:    user.Email,
			FullName: user.FullName,
			Faculty:  user.Faculty,
			Degree:   user.Degree,
			Course:   user.Course,
			AvatarID: user.AvatarID,
		},
		Token: token,
	}, nil
}

func (u *userInfoService) GetUserList() ([]respond.UserListItem, error) {
	users, err := u.repos.User.FindAll()
	if err != nil {
		zap.L().Error("list users failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	out := make([]respond.UserListItem, 0, len(users))
	for _, user := range users {
		out = append(out, respond.UserListItem{
			ID:        user.ID,
			Email:     user.Email,
			Phone:     user.Phone,
			FullName:  user.FullName,
			Faculty:   user.Faculty,
			Degree:    user.Degree,
			Course:    user.Course,
			AvatarID:  user.AvatarID,
			IsActive:  user.IsActive,
			CreatedAt: user.CreatedAt,
		})
	}
	return out, nil
}

func (u *userInfoService) ToggleActive(actorID string, userID uint) (*respond.ToggleRespond, error) {
	user, err := u.repos.User.ToggleActive(userID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, constants.MsgUserNotFound)
		}
		zap.L().Error("toggle user failed", zap.Uint("id", userID), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	detail := "deactivated"
	if user.IsActive {
		detail = "activated"
	}
	mq.PublishAsync(u.publisher, mq.ModerationEvent{
		Type:     mq.EventUserStatusToggled,
		ActorID:  actorID,
		TargetID: user.ID,
		Detail:   detail,
		At:       time.Now(),
	}, 5*time.Second)

	return &respond.ToggleRespond{ID: user.ID, IsActive: user.IsActive}, nil
}

func (u *userInfoService) GetReportedUsers() ([]repository.ReportedUser, error) {
	rows, err := u.repos.Report.FindReportedUsers(u.reportThreshold)
	if err != nil {
		zap.L().Error("list reported users failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return rows, nil
}
