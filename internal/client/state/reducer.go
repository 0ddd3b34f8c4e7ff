package state

import "github.com/fastygo/taskbox/domain"

// AuthState is the auth slice.
type AuthState struct {
	Token           string
	IsAuthenticated bool
	Loading         bool
	Error           bool
	ErrorMessage    string
	Account         *domain.Account
}

// TasksState is the tasks slice.
type TasksState struct {
	Tasks      []domain.Task
	Loading    bool
	ServerDown bool
}

// State is the whole client state.
type State struct {
	Auth  AuthState
	Tasks TasksState
}

// Initial is the state before anything was dispatched.
func Initial() State {
	return State{
		Auth:  AuthState{Loading: true},
		Tasks: TasksState{Tasks: []domain.Task{}, Loading: true},
	}
}

// ReduceAuth returns the auth slice after action. It never mutates prev.
func ReduceAuth(prev AuthState, action Action) AuthState {
	next := prev
	switch action.Type {
	case RegisterSuccess, LoginSuccess:
		session, _ := action.Payload.(Session)
		next.Token = session.Token
		next.Account = session.Account
		next.IsAuthenticated = true
		next.Loading = false
		next.Error = false
		next.ErrorMessage = ""
	case RegisterError, LoginError:
		msg, _ := action.Payload.(string)
		next.Loading = false
		next.Error = true
		next.ErrorMessage = msg
	case Logout:
		next.Token = ""
		next.Account = nil
		next.IsAuthenticated = false
		next.Loading = false
	}
	return next
}

// ReduceTasks returns the tasks slice after action. The task list is copied
// whenever it changes so earlier snapshots stay intact.
func ReduceTasks(prev TasksState, action Action) TasksState {
	next := prev
	switch action.Type {
	case GetTasks:
		tasks, _ := action.Payload.([]domain.Task)
		next.Tasks = append([]domain.Task{}, tasks...)
		next.Loading = false
	case AddTask:
		task, ok := action.Payload.(domain.Task)
		if !ok {
			return prev
		}
		next.Tasks = make([]domain.Task, 0, len(prev.Tasks)+1)
		next.Tasks = append(next.Tasks, prev.Tasks...)
		next.Tasks = append(next.Tasks, task)
		next.Loading = false
	case UpdateTask:
		task, ok := action.Payload.(domain.Task)
		if !ok {
			return prev
		}
		next.Tasks = make([]domain.Task, len(prev.Tasks))
		for i, existing := range prev.Tasks {
			if existing.ID == task.ID {
				existing = task
			}
			next.Tasks[i] = existing
		}
		next.Loading = false
	case DeleteTask:
		id, _ := action.Payload.(string)
		next.Tasks = make([]domain.Task, 0, len(prev.Tasks))
		for _, existing := range prev.Tasks {
			if existing.ID != id {
				next.Tasks = append(next.Tasks, existing)
			}
		}
		next.Loading = false
	case ServerDown:
		next.Loading = false
		next.ServerDown = true
	case ServerUp:
		next.Loading = false
		next.ServerDown = false
	}
	return next
}

// Reduce applies action to both slices.
func Reduce(prev State, action Action) State {
	return State{
		Auth:  ReduceAuth(prev.Auth, action),
		Tasks: ReduceTasks(prev.Tasks, action),
	}
}
