package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"smart_classroom_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const busChannel = "classroom:events"

// busMessage 跨实例广播信封，Instance 用于跳过自己发布的消息
type busMessage struct {
	Instance string          `json:"instance"`
	Room     string          `json:"room"`
	Except   string          `json:"except,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

// ClassroomHub 管理房间成员、在线状态与广播。
// 房间与在线表都是进程内派生缓存，重启后从零重建。
type ClassroomHub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*ClassroomClient]bool
	presence map[string]map[string]int // classID -> userID -> 活跃连接数

	rdb        *redis.Client
	instanceID string
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewClassroomHub rdb 为 nil 时跨实例广播关闭，单实例模式
func NewClassroomHub(rdb *redis.Client) *ClassroomHub {
	ctx, cancel := context.WithCancel(context.Background())
	return &ClassroomHub{
		rooms:      make(map[string]map[*ClassroomClient]bool),
		presence:   make(map[string]map[string]int),
		rdb:        rdb,
		instanceID: uuid.New().String(),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run 订阅跨实例广播总线，rdb 未配置时直接返回
func (h *ClassroomHub) Run() {
	if h.rdb == nil {
		return
	}

	pubsub := h.rdb.Subscribe(h.ctx, busChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var bm busMessage
			if err := json.Unmarshal([]byte(msg.Payload), &bm); err != nil {
				logger.Log.Error("bus message unmarshal failed", zap.Error(err))
				continue
			}
			if bm.Instance == h.instanceID {
				continue
			}
			h.broadcastLocal(bm.Room, bm.Payload, bm.Except)
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop 关闭所有连接并退出总线循环
func (h *ClassroomHub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()
	seen := make(map[*ClassroomClient]bool)
	for _, members := range h.rooms {
		for c := range members {
			seen[c] = true
		}
	}
	for c := range seen {
		c.closeSend()
	}
	h.rooms = make(map[string]map[*ClassroomClient]bool)
	h.presence = make(map[string]map[string]int)
	logger.Log.Info("classroom hub stopped")
}

// JoinRoom 客户端显式声明加入广播域；路由层不做权限判断
func (h *ClassroomHub) JoinRoom(c *ClassroomClient, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*ClassroomClient]bool)
		h.rooms[room] = members
	}
	members[c] = true
	c.rooms[room] = true
}

// RegisterPresence 登记 (class, user) 在线并向全班房间重播完整在线列表
func (h *ClassroomHub) RegisterPresence(c *ClassroomClient, classID, userID string) {
	h.mu.Lock()
	users, ok := h.presence[classID]
	if !ok {
		users = make(map[string]int)
		h.presence[classID] = users
	}
	users[userID]++
	c.presenceClasses[classID] = userID
	online := h.onlineLocked(classID)
	h.mu.Unlock()

	h.Broadcast(ClassRoomKey(classID), Encode(EvUsersOnline, map[string]interface{}{
		"onlineUsers": online,
	}), nil)
}

// Disconnect 按连接登记时的成员关系逆向清理，再重播受影响班级的在线列表
func (h *ClassroomHub) Disconnect(c *ClassroomClient) {
	h.mu.Lock()
	for room := range c.rooms {
		if members, ok := h.rooms[room]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	c.rooms = make(map[string]bool)

	affected := make(map[string][]string)
	for classID, userID := range c.presenceClasses {
		if users, ok := h.presence[classID]; ok {
			users[userID]--
			if users[userID] <= 0 {
				delete(users, userID)
			}
			if len(users) == 0 {
				delete(h.presence, classID)
			}
		}
		affected[classID] = h.onlineLocked(classID)
	}
	c.presenceClasses = make(map[string]string)
	c.closeSend()
	h.mu.Unlock()

	for classID, online := range affected {
		h.Broadcast(ClassRoomKey(classID), Encode(EvUsersOnline, map[string]interface{}{
			"onlineUsers": online,
		}), nil)
	}
}

// OnlineUsers 当前在线用户快照，排序保证输出稳定
func (h *ClassroomHub) OnlineUsers(classID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.onlineLocked(classID)
}

func (h *ClassroomHub) onlineLocked(classID string) []string {
	users := h.presence[classID]
	online := make([]string, 0, len(users))
	for id := range users {
		online = append(online, id)
	}
	sort.Strings(online)
	return online
}

// InRoom 连接是否已加入指定房间
func (h *ClassroomHub) InRoom(c *ClassroomClient, room string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return c.rooms[room]
}

// Broadcast 本地投递并发布到总线；except 非 nil 时跳过发起连接
func (h *ClassroomHub) Broadcast(room string, payload []byte, except *ClassroomClient) {
	exceptID := ""
	if except != nil {
		exceptID = except.ID
	}
	h.broadcastLocal(room, payload, exceptID)
	h.publish(room, payload, exceptID)
}

func (h *ClassroomHub) broadcastLocal(room string, payload []byte, exceptConnID string) {
	h.mu.RLock()
	var slow []*ClassroomClient
	for c := range h.rooms[room] {
		if c.ID == exceptConnID {
			continue
		}
		if !c.trySend(payload) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	// 发送缓冲已满的慢消费者按掉线处理
	for _, c := range slow {
		logger.Log.Warn("dropping slow classroom client", zap.String("conn", c.ID), zap.String("user", c.UserID))
		h.Disconnect(c)
	}
}

func (h *ClassroomHub) publish(room string, payload []byte, exceptConnID string) {
	if h.rdb == nil {
		return
	}
	raw, err := json.Marshal(busMessage{
		Instance: h.instanceID,
		Room:     room,
		Except:   exceptConnID,
		Payload:  payload,
	})
	if err != nil {
		return
	}
	if err := h.rdb.Publish(h.ctx, busChannel, raw).Err(); err != nil {
		logger.Log.Error("bus publish failed", zap.Error(err), zap.String("room", room))
	}
}
