package server

import "html/template"

// The presentation layer is intentionally thin: plain forms, no client
// state. Everything of interest happens in the services behind it.
var pageTemplates = template.Must(template.New("pages").Parse(pagesHTML))

const pagesHTML = `
{{define "login"}}<!DOCTYPE html>
<html>
<head><title>Sign in - Taskdeck</title><link rel="stylesheet" href="/static/app.css"></head>
<body>
<h1>Welcome back</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/login">
  <input type="email" name="email" placeholder="Email" value="{{.Email}}" required>
  <input type="password" name="password" placeholder="Password" required>
  <button type="submit">Sign in</button>
</form>
<p>No account? <a href="/signup">Sign up</a></p>
</body>
</html>{{end}}

{{define "signup"}}<!DOCTYPE html>
<html>
<head><title>Sign up - Taskdeck</title><link rel="stylesheet" href="/static/app.css"></head>
<body>
<h1>Create your account</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/signup">
  <input type="email" name="email" placeholder="Email" value="{{.Email}}" required>
  <input type="password" name="password" placeholder="Password" required>
  <button type="submit">Sign up</button>
</form>
<p>Already registered? <a href="/login">Sign in</a></p>
</body>
</html>{{end}}

{{define "dashboard"}}<!DOCTYPE html>
<html>
<head><title>Dashboard - Taskdeck</title><link rel="stylesheet" href="/static/app.css"></head>
<body>
<header>
  <h1>My Tasks</h1>
  <span>{{.Email}}</span>
  <form method="post" action="/logout"><button type="submit">Logout</button></form>
</header>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/tasks">
  <input type="text" name="title" placeholder="Title" required>
  <input type="text" name="description" placeholder="Description (optional)">
  <input type="date" name="due_date" required>
  <select name="status">
    <option value="todo">To do</option>
    <option value="in_progress">In progress</option>
    <option value="done">Done</option>
  </select>
  <button type="submit">Add task</button>
</form>
<form method="get" action="/dashboard">
  <select name="filter">
    <option value="all"{{if eq .Filter "all"}} selected{{end}}>All</option>
    <option value="todo"{{if eq .Filter "todo"}} selected{{end}}>To do</option>
    <option value="in_progress"{{if eq .Filter "in_progress"}} selected{{end}}>In progress</option>
    <option value="done"{{if eq .Filter "done"}} selected{{end}}>Done</option>
  </select>
  <select name="sort">
    <option value=""{{if eq .Sort ""}} selected{{end}}>Newest first</option>
    <option value="asc"{{if eq .Sort "asc"}} selected{{end}}>Due date &#8593;</option>
    <option value="desc"{{if eq .Sort "desc"}} selected{{end}}>Due date &#8595;</option>
  </select>
  <button type="submit">Apply</button>
</form>
<ul class="tasks">
{{range .Tasks}}
  <li>
    <form method="post" action="/tasks/{{.ID}}">
      <input type="text" name="title" value="{{.Title}}">
      <input type="text" name="description" value="{{if .Description.Valid}}{{.Description.String}}{{end}}">
      <input type="date" name="due_date" value="{{.DueDate}}">
      <select name="status">
        <option value="todo"{{if eq .Status "todo"}} selected{{end}}>To do</option>
        <option value="in_progress"{{if eq .Status "in_progress"}} selected{{end}}>In progress</option>
        <option value="done"{{if eq .Status "done"}} selected{{end}}>Done</option>
      </select>
      <button type="submit">Save</button>
    </form>
    <form method="post" action="/tasks/{{.ID}}/delete"><button type="submit">Delete</button></form>
  </li>
{{else}}
  <li class="empty">No tasks yet.</li>
{{end}}
</ul>
</body>
</html>{{end}}
`
