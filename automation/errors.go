package automation

import "fmt"

type WorkflowNotFoundError struct {
	Id string
}

func (e WorkflowNotFoundError) Error() string {
	return fmt.Sprintf("workflow %s not found", e.Id)
}

type MalformedWorkflowError struct {
	Message string
}

func (e MalformedWorkflowError) Error() string {
	return e.Message
}
