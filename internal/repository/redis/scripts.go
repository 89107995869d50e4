package redis

import "github.com/redis/go-redis/v9"

var (
	// startSessionScript stores a session hash and indexes it. The seq field
	// records insertion order for sessions that start in the same millisecond.
	startSessionScript = redis.NewScript(`
local session_key = KEYS[1]   -- {prefix}:session:{id}
local group_set = KEYS[2]     -- {prefix}:sessions:{group}
local open_set = KEYS[3]      -- {prefix}:open:{group}:{user}
local seq_key = KEYS[4]       -- {prefix}:seq

if redis.call('EXISTS', session_key) == 1 then
  return redis.error_reply('session already exists')
end

redis.call('HSET', session_key,
  'id', ARGV[1],
  'group_id', ARGV[2],
  'user_id', ARGV[3],
  'channel_id', ARGV[4],
  'started_at', ARGV[5],
  'ended_at', ARGV[6],
  'source', ARGV[7],
  'seq', tostring(redis.call('INCR', seq_key))
)
redis.call('ZADD', group_set, ARGV[5], ARGV[1])
if ARGV[6] == '' then
  redis.call('ZADD', open_set, ARGV[5], ARGV[1])
end
return 1
`)

	// endAllOpenScript closes every session in the open set that started at
	// or before ended_at. Later sessions stay open.
	endAllOpenScript = redis.NewScript(`
local open_set = KEYS[1]
local ended_at = ARGV[1]
local session_prefix = ARGV[2]

local ids = redis.call('ZRANGEBYSCORE', open_set, '-inf', ended_at)
for _, id in ipairs(ids) do
  redis.call('HSET', session_prefix .. id, 'ended_at', ended_at)
  redis.call('ZREM', open_set, id)
end
return #ids
`)

	// endByIDScript closes one session when it is still open and started at
	// or before ended_at.
	endByIDScript = redis.NewScript(`
local session_key = KEYS[1]
local ended_at = ARGV[1]
local open_prefix = ARGV[2]

local fields = redis.call('HMGET', session_key, 'id', 'group_id', 'user_id', 'ended_at', 'started_at')
if not fields[1] or fields[4] ~= '' then
  return 0
end
if tonumber(fields[5]) > tonumber(ended_at) then
  return 0
end
redis.call('HSET', session_key, 'ended_at', ended_at)
redis.call('ZREM', open_prefix .. fields[2] .. ':' .. fields[3], fields[1])
return 1
`)

	// switchChannelScript closes the latest open session on the old channel
	// and opens the next one. Latest means highest (started_at, seq).
	// Returns 1 when a session was closed, 0 when none matched and -1 when
	// the match started after at, in which case nothing is written.
	switchChannelScript = redis.NewScript(`
local open_set = KEYS[1]
local group_set = KEYS[2]
local next_key = KEYS[3]
local seq_key = KEYS[4]

local session_prefix = ARGV[1]
local old_channel = ARGV[2]
local at = ARGV[3]

if redis.call('EXISTS', next_key) == 1 then
  return redis.error_reply('session already exists')
end

local prev, prev_start, prev_seq
local ids = redis.call('ZRANGE', open_set, 0, -1)
for _, id in ipairs(ids) do
  local f = redis.call('HMGET', session_prefix .. id, 'channel_id', 'started_at', 'seq')
  if f[1] == old_channel then
    local start = tonumber(f[2])
    local seq = tonumber(f[3]) or 0
    if not prev or start > prev_start or (start == prev_start and seq > prev_seq) then
      prev, prev_start, prev_seq = id, start, seq
    end
  end
end

local closed = 0
if prev then
  if prev_start > tonumber(at) then
    return -1
  end
  redis.call('HSET', session_prefix .. prev, 'ended_at', at)
  redis.call('ZREM', open_set, prev)
  closed = 1
end

redis.call('HSET', next_key,
  'id', ARGV[4],
  'group_id', ARGV[5],
  'user_id', ARGV[6],
  'channel_id', ARGV[7],
  'started_at', at,
  'ended_at', '',
  'source', ARGV[8],
  'seq', tostring(redis.call('INCR', seq_key))
)
redis.call('ZADD', group_set, at, ARGV[4])
redis.call('ZADD', open_set, at, ARGV[4])
return closed
`)
)
