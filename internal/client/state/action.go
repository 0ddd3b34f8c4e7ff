package state

import "github.com/fastygo/taskbox/domain"

// ActionType names a state transition.
type ActionType string

const (
	RegisterSuccess ActionType = "REGISTER_SUCCESS"
	RegisterError   ActionType = "REGISTER_ERROR"
	LoginSuccess    ActionType = "LOGIN_SUCCESS"
	LoginError      ActionType = "LOGIN_ERROR"
	Logout          ActionType = "LOGOUT"

	GetTasks   ActionType = "GET_TASKS"
	AddTask    ActionType = "ADD_TASK"
	UpdateTask ActionType = "UPDATE_TASK"
	DeleteTask ActionType = "DELETE_TASK"
	ServerDown ActionType = "SERVER_DOWN"
	ServerUp   ActionType = "SERVER_UP"
)

// Action is a message for the reducers. Payload depends on Type:
//
//	REGISTER_SUCCESS, LOGIN_SUCCESS  Session
//	REGISTER_ERROR, LOGIN_ERROR      string (server message)
//	GET_TASKS                        []domain.Task
//	ADD_TASK, UPDATE_TASK            domain.Task
//	DELETE_TASK                      string (task id)
type Action struct {
	Type    ActionType
	Payload interface{}
}

// Session is the payload of a successful register or login.
type Session struct {
	Token   string          `json:"token"`
	Account *domain.Account `json:"user"`
}

func RegisterSucceeded(s Session) Action     { return Action{Type: RegisterSuccess, Payload: s} }
func RegisterFailed(msg string) Action       { return Action{Type: RegisterError, Payload: msg} }
func LoginSucceeded(s Session) Action        { return Action{Type: LoginSuccess, Payload: s} }
func LoginFailed(msg string) Action          { return Action{Type: LoginError, Payload: msg} }
func LoggedOut() Action                      { return Action{Type: Logout} }
func TasksLoaded(tasks []domain.Task) Action { return Action{Type: GetTasks, Payload: tasks} }
func TaskAdded(task domain.Task) Action      { return Action{Type: AddTask, Payload: task} }
func TaskUpdated(task domain.Task) Action    { return Action{Type: UpdateTask, Payload: task} }
func TaskDeleted(id string) Action           { return Action{Type: DeleteTask, Payload: id} }
func ServerWentDown() Action                 { return Action{Type: ServerDown} }
func ServerCameUp() Action                   { return Action{Type: ServerUp} }
