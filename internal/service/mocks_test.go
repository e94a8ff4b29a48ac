package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"kairos-api/internal/domain"
	"kairos-api/internal/repository"
)

type mockUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.User{}, repository.ErrDuplicate
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now().UTC()
	m.users[user.ID] = user
	return user, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrNotFound
}

func (m *mockUserRepo) List(_ context.Context, role string) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.User{}
	for _, u := range m.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockUserRepo) Update(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, u := range m.users {
		if u.ID != user.ID && u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.LastLogin = &at
	m.users[id] = u
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type mockSessionRepo struct {
	nextID   int64
	sessions map[int64]domain.ChatSession
	deleted  []int64
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[int64]domain.ChatSession)}
}

func (m *mockSessionRepo) Create(_ context.Context, s domain.ChatSession) (domain.ChatSession, error) {
	m.nextID++
	s.ID = m.nextID
	m.sessions[s.ID] = s
	return s, nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id int64) (domain.ChatSession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return domain.ChatSession{}, repository.ErrNotFound
	}
	return s, nil
}

func (m *mockSessionRepo) ListByUser(_ context.Context, userID int64) ([]domain.ChatSession, error) {
	out := []domain.ChatSession{}
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockSessionRepo) Update(_ context.Context, s domain.ChatSession) error {
	if _, ok := m.sessions[s.ID]; !ok {
		return repository.ErrNotFound
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *mockSessionRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.sessions, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockMessageRepo struct {
	nextID   int64
	messages []domain.ChatMessage
}

func (m *mockMessageRepo) Create(_ context.Context, msg domain.ChatMessage) (domain.ChatMessage, error) {
	m.nextID++
	msg.ID = m.nextID
	order := 0
	for _, existing := range m.messages {
		if existing.SessionID == msg.SessionID && existing.MessageOrder > order {
			order = existing.MessageOrder
		}
	}
	msg.MessageOrder = order + 1
	m.messages = append(m.messages, msg)
	return msg, nil
}

func (m *mockMessageRepo) ListBySessionID(_ context.Context, sessionID int64) ([]domain.ChatMessage, error) {
	out := []domain.ChatMessage{}
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepo) ListContentsByType(_ context.Context, sessionID int64, messageType string) ([]string, error) {
	var out []string
	for _, msg := range m.messages {
		if msg.SessionID == sessionID && msg.MessageType == messageType {
			out = append(out, msg.Content)
		}
	}
	return out, nil
}

func (m *mockMessageRepo) CountByType(ctx context.Context, sessionID int64, messageType string) (int, error) {
	texts, _ := m.ListContentsByType(ctx, sessionID, messageType)
	return len(texts), nil
}

type mockQuestionRepo struct {
	nextID    int64
	questions []domain.Question
	answers   *mockAnswerRepo
}

func (m *mockQuestionRepo) Create(_ context.Context, q domain.Question) (bool, error) {
	for _, existing := range m.questions {
		if existing.QuestionText == q.QuestionText {
			return false, nil
		}
	}
	m.nextID++
	q.ID = m.nextID
	m.questions = append(m.questions, q)
	return true, nil
}

func (m *mockQuestionRepo) GetByID(_ context.Context, id int64) (domain.Question, error) {
	for _, q := range m.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return domain.Question{}, repository.ErrNotFound
}

func (m *mockQuestionRepo) ListByMode(_ context.Context, mode string) ([]domain.Question, error) {
	out := []domain.Question{}
	for _, q := range m.questions {
		if mode == "" || q.CompatibleModes == mode || q.CompatibleModes == domain.CompatibleBoth {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (m *mockQuestionRepo) NextUnanswered(ctx context.Context, evaluationID int64, mode string) (domain.Question, error) {
	qs, _ := m.ListByMode(ctx, mode)
	for _, q := range qs {
		if m.answers == nil || !m.answers.has(evaluationID, q.ID) {
			return q, nil
		}
	}
	return domain.Question{}, repository.ErrNotFound
}

type mockEvaluationRepo struct {
	nextID      int64
	evaluations map[int64]domain.Evaluation
}

func newMockEvaluationRepo() *mockEvaluationRepo {
	return &mockEvaluationRepo{evaluations: make(map[int64]domain.Evaluation)}
}

func (m *mockEvaluationRepo) Create(_ context.Context, e domain.Evaluation) (domain.Evaluation, error) {
	for _, existing := range m.evaluations {
		if existing.SessionID == e.SessionID {
			return existing, nil
		}
	}
	m.nextID++
	e.ID = m.nextID
	e.StartedAt = time.Now().UTC()
	m.evaluations[e.ID] = e
	return e, nil
}

func (m *mockEvaluationRepo) GetByID(_ context.Context, id int64) (domain.Evaluation, error) {
	e, ok := m.evaluations[id]
	if !ok {
		return domain.Evaluation{}, repository.ErrNotFound
	}
	return e, nil
}

func (m *mockEvaluationRepo) GetBySessionID(_ context.Context, sessionID int64) (domain.Evaluation, error) {
	for _, e := range m.evaluations {
		if e.SessionID == sessionID {
			return e, nil
		}
	}
	return domain.Evaluation{}, repository.ErrNotFound
}

func (m *mockEvaluationRepo) ListByUser(_ context.Context, userID int64) ([]domain.Evaluation, error) {
	out := []domain.Evaluation{}
	for _, e := range m.evaluations {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockEvaluationRepo) UpdateProgress(_ context.Context, id int64, progress float64) error {
	e, ok := m.evaluations[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.Progress = progress
	m.evaluations[id] = e
	return nil
}

func (m *mockEvaluationRepo) MarkCompleted(_ context.Context, id int64, at time.Time) error {
	e, ok := m.evaluations[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.Status = domain.EvaluationCompleted
	e.Progress = 1
	e.CompletedAt = &at
	m.evaluations[id] = e
	return nil
}

type mockAnswerRepo struct {
	nextID    int64
	answers   []domain.Answer
	questions *mockQuestionRepo
	err       error
}

func (m *mockAnswerRepo) has(evaluationID, questionID int64) bool {
	for _, a := range m.answers {
		if a.EvaluationID == evaluationID && a.QuestionID == questionID {
			return true
		}
	}
	return false
}

func (m *mockAnswerRepo) Upsert(_ context.Context, a domain.Answer) (domain.Answer, error) {
	for i, existing := range m.answers {
		if existing.EvaluationID == a.EvaluationID && existing.QuestionID == a.QuestionID {
			a.ID = existing.ID
			m.answers[i] = a
			return a, nil
		}
	}
	m.nextID++
	a.ID = m.nextID
	m.answers = append(m.answers, a)
	return a, nil
}

func (m *mockAnswerRepo) ListWithQuestions(ctx context.Context, evaluationID int64) ([]domain.AnsweredQuestion, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.AnsweredQuestion{}
	for _, a := range m.answers {
		if a.EvaluationID != evaluationID {
			continue
		}
		aq := domain.AnsweredQuestion{Answer: a}
		if m.questions != nil {
			if q, err := m.questions.GetByID(ctx, a.QuestionID); err == nil {
				aq.Category = q.Category
				aq.QuestionType = q.QuestionType
			}
		}
		out = append(out, aq)
	}
	return out, nil
}

func (m *mockAnswerRepo) Count(_ context.Context, evaluationID int64) (int, error) {
	n := 0
	for _, a := range m.answers {
		if a.EvaluationID == evaluationID {
			n++
		}
	}
	return n, nil
}

type mockResultRepo struct {
	nextID  int64
	results map[int64]domain.EvaluationResult
	upserts int
}

func newMockResultRepo() *mockResultRepo {
	return &mockResultRepo{results: make(map[int64]domain.EvaluationResult)}
}

func (m *mockResultRepo) Upsert(_ context.Context, r domain.EvaluationResult) (domain.EvaluationResult, error) {
	m.upserts++
	if existing, ok := m.results[r.EvaluationID]; ok {
		r.ID = existing.ID
	} else {
		m.nextID++
		r.ID = m.nextID
	}
	m.results[r.EvaluationID] = r
	return r, nil
}

func (m *mockResultRepo) GetByEvaluationID(_ context.Context, evaluationID int64) (domain.EvaluationResult, error) {
	r, ok := m.results[evaluationID]
	if !ok {
		return domain.EvaluationResult{}, repository.ErrNotFound
	}
	return r, nil
}

type mockFeedbackRepo struct {
	items []domain.StudentFeedback
}

func (m *mockFeedbackRepo) Create(_ context.Context, f domain.StudentFeedback) (domain.StudentFeedback, error) {
	f.ID = int64(len(m.items) + 1)
	f.CreatedAt = time.Now().UTC()
	m.items = append(m.items, f)
	return f, nil
}

func (m *mockFeedbackRepo) ListByEvaluation(_ context.Context, evaluationID int64) ([]domain.StudentFeedback, error) {
	out := []domain.StudentFeedback{}
	for _, f := range m.items {
		if f.EvaluationID == evaluationID {
			out = append(out, f)
		}
	}
	return out, nil
}

type mockCommentRepo struct {
	items []domain.EvaluatorComment
}

func (m *mockCommentRepo) Create(_ context.Context, c domain.EvaluatorComment) (domain.EvaluatorComment, error) {
	c.ID = int64(len(m.items) + 1)
	c.CreatedAt = time.Now().UTC()
	m.items = append(m.items, c)
	return c, nil
}

func (m *mockCommentRepo) ListByEvaluation(_ context.Context, evaluationID int64) ([]domain.EvaluatorComment, error) {
	out := []domain.EvaluatorComment{}
	for _, c := range m.items {
		if c.EvaluationID == evaluationID {
			out = append(out, c)
		}
	}
	return out, nil
}

type mockAssignmentRepo struct {
	items []domain.EvaluatorAssignment
}

func (m *mockAssignmentRepo) Create(_ context.Context, a domain.EvaluatorAssignment) (domain.EvaluatorAssignment, error) {
	for i, existing := range m.items {
		if existing.EvaluatorID == a.EvaluatorID && existing.StudentID == a.StudentID {
			m.items[i].Status = a.Status
			return m.items[i], nil
		}
	}
	a.ID = int64(len(m.items) + 1)
	a.AssignedDate = time.Now().UTC()
	m.items = append(m.items, a)
	return a, nil
}

func (m *mockAssignmentRepo) List(_ context.Context) ([]domain.EvaluatorAssignment, error) {
	return append([]domain.EvaluatorAssignment{}, m.items...), nil
}

func (m *mockAssignmentRepo) ListByEvaluator(_ context.Context, evaluatorID int64) ([]domain.EvaluatorAssignment, error) {
	out := []domain.EvaluatorAssignment{}
	for _, a := range m.items {
		if a.EvaluatorID == evaluatorID && a.Status == repository.AssignmentActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAssignmentRepo) IsAssigned(_ context.Context, evaluatorID, studentID int64) (bool, error) {
	for _, a := range m.items {
		if a.EvaluatorID == evaluatorID && a.StudentID == studentID && a.Status == repository.AssignmentActive {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id int64) error {
	for i, a := range m.items {
		if a.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type mockCareerRepo struct {
	careers      []domain.CareerVector
	err          error
	nearestCalls int
	lastK        int
}

func (m *mockCareerRepo) Upsert(_ context.Context, c domain.CareerVector, position int) error {
	if m.err != nil {
		return m.err
	}
	for i, existing := range m.careers {
		if strings.EqualFold(existing.Name, c.Name) {
			m.careers[i] = c
			return nil
		}
	}
	m.careers = append(m.careers, c)
	return nil
}

func (m *mockCareerRepo) ListAll(_ context.Context) ([]domain.CareerVector, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.CareerVector{}, m.careers...), nil
}

func (m *mockCareerRepo) Nearest(_ context.Context, _ domain.Profile, k int) ([]domain.CareerVector, error) {
	m.nearestCalls++
	m.lastK = k
	if m.err != nil {
		return nil, m.err
	}
	if k > len(m.careers) {
		k = len(m.careers)
	}
	return append([]domain.CareerVector{}, m.careers[:k]...), nil
}
