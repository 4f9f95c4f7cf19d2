package tui

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"github.com/avelis/duecal/internal/app"
	"github.com/avelis/duecal/internal/model"
)

const (
	viewHeader = "header"
	viewFooter = "footer"
	viewLogin  = "login"
	viewForm   = "form"
	viewList   = "list"
	viewNotice = "notice"
)

type UI struct {
	service *app.Service
	gui     *gocui.Gui

	session *model.Session

	loginFields []formField
	loginIndex  int

	formFields []formField
	formIndex  int

	deadlines []model.Deadline
	selected  int
	upcoming  []model.Deadline

	focus  string
	status string

	fieldEditor *fieldEditor
}

type fieldEditor struct {
	ui *UI
}

func Run(service *app.Service) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := newUI(service)
	ui.gui = gui

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}

	if err := gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}

	return nil
}

func newUI(service *app.Service) *UI {
	ui := &UI{
		service:     service,
		loginFields: buildLoginFields(),
		formFields:  buildDeadlineFields(),
		focus:       viewLogin,
	}
	ui.fieldEditor = &fieldEditor{ui: ui}
	return ui
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	if err := gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'q', gocui.ModNone, u.quitIfIdle); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", gocui.KeyTab, gocui.ModNone, u.switchFocus); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewLogin, gocui.KeyEnter, gocui.ModNone, u.submitLogin); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewLogin, gocui.KeyCtrlR, gocui.ModNone, u.submitRegister); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEnter, gocui.ModNone, u.submitDeadline); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'd', gocui.ModNone, u.deleteSelected); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'r', gocui.ModNone, u.reload); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewList, gocui.KeyArrowDown, gocui.ModNone, u.moveDown); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewList, gocui.KeyArrowUp, gocui.ModNone, u.moveUp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewList, 'j', gocui.ModNone, u.moveDown); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewList, 'k', gocui.ModNone, u.moveUp); err != nil {
		return err
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	u.renderHeader(headerView)

	footerY := maxY - 2
	if footerY < 1 {
		footerY = 1
	}
	footerView, err := gui.SetView(viewFooter, 0, footerY-1, maxX-1, footerY, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	u.renderFooter(footerView)

	if u.session == nil {
		if err := u.showLogin(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewLogin)
		if err := u.showMain(gui, maxX, footerY-1); err != nil {
			return err
		}
	}

	_, _ = gui.SetViewOnTop(viewHeader)
	_, _ = gui.SetViewOnTop(viewFooter)

	if gui.CurrentView() == nil {
		_, _ = gui.SetCurrentView(u.focus)
	}
	gui.Cursor = u.focus == viewLogin || u.focus == viewForm

	return nil
}

func (u *UI) showLogin(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(50, maxX/2)
	height := len(u.loginFields) + 1
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	if y0 < 1 {
		y0 = 1
	}

	view, err := gui.SetView(viewLogin, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	view.Title = "Login / Register"
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = u.fieldEditor
	u.renderFields(view, u.loginFields, u.loginIndex)
	_, _ = gui.SetCurrentView(viewLogin)
	return nil
}

func (u *UI) showMain(gui *gocui.Gui, maxX, bottom int) error {
	formHeight := len(u.formFields) + 1
	formView, err := gui.SetView(viewForm, 0, 1, maxX-1, 1+formHeight, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	formView.Title = "New Deadline"
	formView.Editable = true
	formView.KeybindOnEdit = true
	formView.Editor = u.fieldEditor
	applyViewStyle(formView, u.focus == viewForm)
	u.renderFields(formView, u.formFields, u.formIndex)

	noticeHeight := len(u.upcoming) + 3
	if noticeHeight > (bottom-formHeight)/2 {
		noticeHeight = max((bottom-formHeight)/2, 4)
	}
	noticeY0 := bottom - noticeHeight
	listY0 := 2 + formHeight
	if noticeY0 <= listY0+1 {
		noticeY0 = listY0 + 2
	}

	listView, err := gui.SetView(viewList, 0, listY0, maxX-1, noticeY0-1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	listView.Title = "Deadlines"
	applyViewStyle(listView, u.focus == viewList)
	u.renderList(listView)

	noticeView, err := gui.SetView(viewNotice, 0, noticeY0, maxX-1, bottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	noticeView.Title = "Upcoming"
	noticeView.Wrap = true
	u.renderNotice(noticeView)

	return nil
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	if u.session == nil {
		fmt.Fprint(view, "duecal - academic deadlines")
		return
	}
	fmt.Fprintf(view, "duecal - logged in as %s", u.session.Username)
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	if u.session == nil {
		fmt.Fprintln(view, "enter login | ctrl+r register | tab switch field | ctrl+c quit")
	} else {
		fmt.Fprintln(view, "enter add | d delete selected | tab form/list | j/k move | r reload | q quit")
	}
	if u.status != "" {
		fmt.Fprint(view, u.status)
	}
}

func (u *UI) renderFields(view *gocui.View, fields []formField, index int) {
	view.Clear()
	for i, field := range fields {
		prefix := "  "
		if i == index {
			prefix = "> "
		}
		fmt.Fprintf(view, "%s%s: %s\n", prefix, field.Label, maskValue(field))
	}
	label := fields[index].Label + ": "
	cursorX := len([]rune(label)) + len([]rune(fields[index].Value)) + 2
	view.SetCursor(cursorX, index)
}

func (u *UI) renderList(view *gocui.View) {
	view.Clear()
	for i, deadline := range u.deadlines {
		prefix := " "
		if i == u.selected {
			if u.focus == viewList {
				prefix = ">"
			} else {
				prefix = "*"
			}
		}
		fmt.Fprintf(view, "%s %s\n", prefix, app.FormatDeadline(deadline))
	}
	if u.focus == viewList && len(u.deadlines) > 0 {
		view.SetCursor(0, min(u.selected, len(u.deadlines)-1))
	}
}

func (u *UI) renderNotice(view *gocui.View) {
	view.Clear()
	fmt.Fprint(view, app.UpcomingMessage(u.upcoming))
}

func (e *fieldEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil {
		return false
	}
	fields, index := ui.activeFields()
	if fields == nil {
		return false
	}
	field := &fields[index]

	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(field.Value)
		if len(runes) > 0 {
			field.Value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		field.Value += " "
	case gocui.KeyCtrlU:
		field.Value = ""
	case gocui.KeyArrowDown:
		ui.nextField()
	case gocui.KeyArrowUp:
		ui.prevField()
	}

	if ch != 0 && ch != '\n' && ch != '\r' && mod == 0 {
		field.Value += string(ch)
	}

	fields, index = ui.activeFields()
	ui.renderFields(view, fields, index)
	return true
}

func (u *UI) activeFields() ([]formField, int) {
	if u.session == nil {
		return u.loginFields, u.loginIndex
	}
	if u.focus == viewForm {
		return u.formFields, u.formIndex
	}
	return nil, 0
}

func (u *UI) nextField() {
	if u.session == nil {
		if u.loginIndex < len(u.loginFields)-1 {
			u.loginIndex++
		}
		return
	}
	if u.formIndex < len(u.formFields)-1 {
		u.formIndex++
	}
}

func (u *UI) prevField() {
	if u.session == nil {
		if u.loginIndex > 0 {
			u.loginIndex--
		}
		return
	}
	if u.formIndex > 0 {
		u.formIndex--
	}
}

func (u *UI) switchFocus(gui *gocui.Gui, _ *gocui.View) error {
	if u.session == nil {
		u.nextFieldWrapped()
		return nil
	}
	if u.focus == viewForm {
		u.focus = viewList
	} else {
		u.focus = viewForm
	}
	if gui != nil {
		_, _ = gui.SetCurrentView(u.focus)
	}
	return nil
}

func (u *UI) nextFieldWrapped() {
	u.loginIndex++
	if u.loginIndex >= len(u.loginFields) {
		u.loginIndex = 0
	}
}

func (u *UI) submitLogin(gui *gocui.Gui, _ *gocui.View) error {
	session, err := u.service.Login(context.Background(),
		u.loginFields[fieldUsername].Value, u.loginFields[fieldPassword].Value)
	if err != nil {
		u.status = loginMessage(err)
		return nil
	}

	u.session = &session
	u.focus = viewForm
	u.status = fmt.Sprintf("Welcome, %s!", session.Username)
	clearFields(u.loginFields)
	u.loginIndex = 0
	if gui != nil {
		_ = gui.DeleteView(viewLogin)
		_, _ = gui.SetCurrentView(viewForm)
	}
	return u.refresh()
}

func (u *UI) submitRegister(gui *gocui.Gui, _ *gocui.View) error {
	err := u.service.Register(context.Background(),
		u.loginFields[fieldUsername].Value, u.loginFields[fieldPassword].Value)
	if err != nil {
		u.status = loginMessage(err)
		return nil
	}

	u.status = "Registration successful! Please log in."
	clearFields(u.loginFields)
	u.loginIndex = 0
	return nil
}

func (u *UI) submitDeadline(gui *gocui.Gui, _ *gocui.View) error {
	if u.session == nil {
		return nil
	}

	_, err := u.service.AddDeadline(context.Background(), *u.session,
		u.formFields[fieldEventName].Value,
		u.formFields[fieldEventDate].Value,
		u.formFields[fieldReminder].Value)
	if err != nil {
		u.status = deadlineMessage(err)
		return nil
	}

	u.status = "Deadline added successfully!"
	clearFields(u.formFields)
	u.formIndex = 0
	return u.refresh()
}

func (u *UI) deleteSelected(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.session == nil {
		return nil
	}
	if u.selected < 0 || u.selected >= len(u.deadlines) {
		u.status = deadlineMessage(app.ErrSelectionRequired)
		return nil
	}

	deadline := u.deadlines[u.selected]
	if _, err := u.service.RemoveDeadline(context.Background(), *u.session, deadline.EventName, deadline.EventDate); err != nil {
		u.status = deadlineMessage(err)
		return nil
	}

	u.status = "Deadline deleted successfully!"
	return u.refresh()
}

func (u *UI) refresh() error {
	if u.session == nil {
		return nil
	}

	deadlines, err := u.service.ListDeadlines(context.Background(), *u.session)
	if err != nil {
		return err
	}
	upcoming, err := u.service.Upcoming(context.Background(), *u.session, time.Now())
	if err != nil {
		return err
	}

	u.deadlines = deadlines
	u.upcoming = upcoming
	if u.selected >= len(u.deadlines) {
		u.selected = max(len(u.deadlines)-1, 0)
	}
	return nil
}

func (u *UI) reload(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	return u.refresh()
}

func (u *UI) moveDown(gui *gocui.Gui, _ *gocui.View) error {
	if u.selected < len(u.deadlines)-1 {
		u.selected++
	}
	return nil
}

func (u *UI) moveUp(gui *gocui.Gui, _ *gocui.View) error {
	if u.selected > 0 {
		u.selected--
	}
	return nil
}

func (u *UI) inputActive() bool {
	return u.session == nil || u.focus == viewForm
}

func (u *UI) quitIfIdle(gui *gocui.Gui, view *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	return gocui.ErrQuit
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}

func applyViewStyle(view *gocui.View, focused bool) {
	if focused {
		view.TitleColor = gocui.ColorCyan
	} else {
		view.TitleColor = gocui.ColorDefault
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
