package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/curtisnewbie/misotime/async"
	"github.com/curtisnewbie/misotime/config"
	"github.com/curtisnewbie/misotime/errs"
	"github.com/curtisnewbie/misotime/logger"
	"github.com/curtisnewbie/misotime/web"
	"github.com/sirupsen/logrus"
)

type GetUserReq struct {
	Id int `form:"id" json:"id"`
}

type GetUserRes struct {
	Id     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type ListUsersReq struct {
	web.Paging
}

type ListUsersRes struct {
	Paging web.Paging   `json:"paging"`
	Users  []GetUserRes `json:"users"`
}

type UserHandler struct {
	users map[int]string
}

func (u *UserHandler) GetUser(inb *web.Inbound, req GetUserReq) (GetUserRes, error) {
	name, ok := u.users[req.Id]
	if !ok {
		return GetUserRes{}, errs.NewErrfCode("USER_NOT_FOUND", "User not found").WithInternalMsg("id: %v", req.Id)
	}
	return GetUserRes{Id: req.Id, Name: name, Status: "ok"}, nil
}

func (u *UserHandler) ListUsers(inb *web.Inbound, req ListUsersReq) async.Future[ListUsersRes] {
	return async.Run(func() (ListUsersRes, error) {
		time.Sleep(20 * time.Millisecond) // pretend it's a slow query
		ids := make([]int, 0, len(u.users))
		for id := range u.users {
			ids = append(ids, id)
		}
		sort.Ints(ids)

		off := req.CalcOffset()
		res := ListUsersRes{Paging: web.BuildResPage(req.Paging, len(ids)), Users: []GetUserRes{}}
		for i := off; i < len(ids) && i < off+req.Limit; i++ {
			res.Users = append(res.Users, GetUserRes{Id: ids[i], Name: u.users[ids[i]], Status: "ok"})
		}
		return res, nil
	})
}

func main() {
	config.DefaultReadConfig(os.Args)
	logger.SetupLogging(config.GetPropStr(config.PropLoggingLevel), config.GetPropStr(config.PropLoggingRollingFile))

	if err := registerRoutes(); err != nil {
		logrus.Fatalf("Failed to register routes, %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := web.Serve(ctx, web.ServerConf{
		Addr:             fmt.Sprintf("%v:%v", config.GetPropStr(config.PropServerHost), config.GetPropInt(config.PropServerPort)),
		PerfEnabled:      config.GetPropBool(config.PropServerPerfEnabled),
		GracefulShutdown: config.GetPropDur(config.PropServerGracefulShutdownTimeSec, time.Second),
	})
	if err != nil {
		logrus.Fatalf("Server exited, %v", err)
	}
}

func registerRoutes() error {
	h := &UserHandler{users: map[int]string{1: "alice", 2: "bob"}}
	decls := []*web.LazyRouteDecl{
		web.IGet("/user", h.GetUser),
		web.IGetAsync("/user/list", h.ListUsers),
	}
	web.GroupRoute("/open/api", decls...)

	if !config.GetPropBool(config.PropTimingEnabled) {
		return nil
	}
	for _, d := range decls {
		conf, err := config.TimingConf(d.Name())
		if err != nil {
			return err
		}
		d.Measure(conf)
	}
	return nil
}
